// Package navigation declares the application's menu trees and filters them
// by role. Filtering is a pure function over the static trees; nothing here
// talks to the backend.
package navigation

import "github.com/paracurve/claimdesk/internal/domain"

// Item is one entry in a navigation tree. An empty Roles list means the item
// is visible to every authenticated user.
type Item struct {
	Label    string        `json:"label"`
	Path     string        `json:"path"`
	Icon     string        `json:"icon,omitempty"`
	Roles    []domain.Role `json:"roles,omitempty"`
	Children []Item        `json:"children,omitempty"`
}

// visibleTo applies the visibility rule: no roles declared, the user's role
// listed, or employee listed (every known role has employee-level access).
func (it Item) visibleTo(role domain.Role) bool {
	if len(it.Roles) == 0 {
		return true
	}
	for _, r := range it.Roles {
		if r == role || r == domain.RoleEmployee {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers can never mutate the static trees.
func (it Item) clone() Item {
	out := it
	if len(it.Roles) > 0 {
		out.Roles = append([]domain.Role(nil), it.Roles...)
	}
	if len(it.Children) > 0 {
		out.Children = make([]Item, 0, len(it.Children))
		for _, child := range it.Children {
			out.Children = append(out.Children, child.clone())
		}
	}
	return out
}
