package domain

import (
	"encoding/json"
	"fmt"
)

// Status is a lifecycle state of a claim, allowance or policy. The set is
// closed; unknown values are rejected when they enter the system.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusSubmitted       Status = "submitted"
	StatusPendingManager  Status = "pending_manager"
	StatusPendingHR       Status = "pending_hr"
	StatusPendingFinance  Status = "pending_finance"
	StatusApproved        Status = "approved"
	StatusFinanceApproved Status = "finance_approved"
	StatusRejected        Status = "rejected"
	StatusReturned        Status = "returned"
	StatusPayrollReady    Status = "payroll_ready"
	StatusSettled         Status = "settled"
)

var validStatuses = map[Status]bool{
	StatusDraft:           true,
	StatusSubmitted:       true,
	StatusPendingManager:  true,
	StatusPendingHR:       true,
	StatusPendingFinance:  true,
	StatusApproved:        true,
	StatusFinanceApproved: true,
	StatusRejected:        true,
	StatusReturned:        true,
	StatusPayrollReady:    true,
	StatusSettled:         true,
}

// terminalStatuses lists the states with no onward mainline transition.
// A rejected entity can still be reopened by a backend-recorded "returned"
// transition; the flag describes display semantics, not legality.
var terminalStatuses = map[Status]bool{
	StatusSettled:  true,
	StatusRejected: true,
}

// ParseStatus converts a raw string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// IsValid returns true if the status is part of the closed enumeration.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if the status ends the lifecycle.
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsPendingReview returns true for the states an approver acts on.
func (s Status) IsPendingReview() bool {
	switch s {
	case StatusPendingManager, StatusPendingHR, StatusPendingFinance:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// UnmarshalJSON rejects unknown statuses at the decoding boundary. An empty
// string maps to the zero Status; history entries use it as the from-status
// of the creating transition.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
