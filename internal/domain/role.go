package domain

import (
	"encoding/json"
	"fmt"
)

// Role identifies the permission level of a user. It is immutable for the
// lifetime of a session and is the sole input to navigation filtering.
type Role string

const (
	RoleEmployee    Role = "employee"
	RoleManager     Role = "manager"
	RoleHR          Role = "hr"
	RoleFinance     Role = "finance"
	RoleAdmin       Role = "admin"
	RoleSystemAdmin Role = "system_admin"
)

var validRoles = map[Role]bool{
	RoleEmployee:    true,
	RoleManager:     true,
	RoleHR:          true,
	RoleFinance:     true,
	RoleAdmin:       true,
	RoleSystemAdmin: true,
}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// IsValid returns true if the role is part of the closed enumeration.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// UnmarshalJSON rejects unknown roles at the decoding boundary. An empty
// string is accepted as the zero Role so that optional fields (for example
// the actor role on system-generated history entries) can stay unset.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*r = ""
		return nil
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
