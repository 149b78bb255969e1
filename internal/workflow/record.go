package workflow

import (
	"time"

	"github.com/paracurve/claimdesk/internal/domain"
)

// Recordable is a document that accumulates approval history. Both
// *domain.Claim and *domain.Allowance satisfy it.
type Recordable interface {
	CurrentStatus() domain.Status
	Apply(domain.ApprovalHistoryItem)
}

// Record appends a transition entry to the document and moves it to the
// target status. Legality is deliberately not checked: the backend decides
// which transitions are allowed, the client records what it was told. The
// applied entry is returned for display.
func Record(doc Recordable, action Action, actor domain.User, to domain.Status, comment string, at time.Time) domain.ApprovalHistoryItem {
	item := domain.NewTransition(string(action), actor.ID, actor.Role, doc.CurrentStatus(), to, comment, at)
	item.ActorName = actor.Name
	doc.Apply(item)
	return item
}
