package domain

import (
	"fmt"
	"time"
)

// ApprovalHistoryItem is one immutable entry in an approval trail. Entries
// are only ever appended; the backend is the authority on whether a
// transition was legal, the client records what it was told.
type ApprovalHistoryItem struct {
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name,omitempty"`
	ActorRole  Role      `json:"actor_role,omitempty"`
	FromStatus Status    `json:"from_status,omitempty"`
	ToStatus   Status    `json:"to_status"`
	Comment    string    `json:"comment,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ApprovalHistory is the ordered, append-only log of status transitions.
// The zero value is ready to use.
type ApprovalHistory []ApprovalHistoryItem

// NewTransition builds a history entry for a status change.
func NewTransition(action, actorID string, actorRole Role, from, to Status, comment string, at time.Time) ApprovalHistoryItem {
	return ApprovalHistoryItem{
		Action:     action,
		ActorID:    actorID,
		ActorRole:  actorRole,
		FromStatus: from,
		ToStatus:   to,
		Comment:    comment,
		Timestamp:  at,
	}
}

// Tip returns the most recent entry, if any.
func (h ApprovalHistory) Tip() (ApprovalHistoryItem, bool) {
	if len(h) == 0 {
		return ApprovalHistoryItem{}, false
	}
	return h[len(h)-1], true
}

// CurrentStatus returns the to-status of the tip entry.
func (h ApprovalHistory) CurrentStatus() (Status, bool) {
	tip, ok := h.Tip()
	if !ok {
		return "", false
	}
	return tip.ToStatus, true
}

// ConsistentWith reports whether the tip's to-status equals the given
// entity status. An empty history is consistent with any status: entities
// created directly in draft carry no transitions yet.
func (h ApprovalHistory) ConsistentWith(status Status) bool {
	tip, ok := h.Tip()
	if !ok {
		return true
	}
	return tip.ToStatus == status
}

// Validate checks the append-only invariant: every entry's from-status must
// equal the previous entry's to-status, and the tip must match the entity's
// current status.
func (h ApprovalHistory) Validate(current Status) error {
	for i := 1; i < len(h); i++ {
		if h[i].FromStatus != h[i-1].ToStatus {
			return fmt.Errorf("%w: entry %d transitions from %q but previous ended at %q",
				ErrInconsistentHistory, i, h[i].FromStatus, h[i-1].ToStatus)
		}
	}
	if !h.ConsistentWith(current) {
		tip, _ := h.Tip()
		return fmt.Errorf("%w: tip ends at %q, entity status is %q",
			ErrInconsistentHistory, tip.ToStatus, current)
	}
	return nil
}
