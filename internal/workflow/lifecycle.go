// Package workflow describes the claim and allowance lifecycles: which
// actions are offered at each status, where each action leads, and how far
// along the happy path a document is. The lifecycles drive UI affordances
// only. Transitions reported by the backend are recorded as-is even when
// this package would not have offered them, so that the client never
// disagrees with the server about history.
package workflow

import (
	"fmt"

	"github.com/paracurve/claimdesk/internal/domain"
)

// transition pairs an action with the status it leads to.
type transition struct {
	action Action
	to     domain.Status
}

// Lifecycle is the transition graph for one document kind together with
// its mainline, the happy path rendered as a progress stepper.
type Lifecycle struct {
	transitions map[domain.Status][]transition
	mainline    []domain.Status
	steps       map[domain.Status]int
}

// Builder assembles a Lifecycle through a fluent configuration API.
type Builder struct {
	transitions map[domain.Status][]transition
	mainline    []domain.Status
}

// StatusConfig configures the transitions leaving a single status.
type StatusConfig struct {
	builder *Builder
	from    domain.Status
}

// NewBuilder creates an empty lifecycle builder.
func NewBuilder() *Builder {
	return &Builder{
		transitions: make(map[domain.Status][]transition),
	}
}

// Configure returns the configuration for transitions out of the status.
func (b *Builder) Configure(status domain.Status) *StatusConfig {
	if !status.IsValid() {
		panic(fmt.Sprintf("workflow: invalid status %q", status))
	}
	return &StatusConfig{builder: b, from: status}
}

// Permit records that the action moves a document from this status to the
// target. Actions keep their configuration order so buttons render stably.
func (c *StatusConfig) Permit(action Action, to domain.Status) *StatusConfig {
	if !action.IsValid() {
		panic(fmt.Sprintf("workflow: invalid action %q", action))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("workflow: invalid target status %q", to))
	}
	c.builder.transitions[c.from] = append(c.builder.transitions[c.from], transition{action: action, to: to})
	return c
}

// Mainline declares the happy path from draft to settlement. Statuses off
// the mainline (rejected, returned) report no progress step.
func (b *Builder) Mainline(statuses ...domain.Status) *Builder {
	for _, s := range statuses {
		if !s.IsValid() {
			panic(fmt.Sprintf("workflow: invalid mainline status %q", s))
		}
	}
	b.mainline = statuses
	return b
}

// Build freezes the builder into an immutable Lifecycle.
func (b *Builder) Build() *Lifecycle {
	transitions := make(map[domain.Status][]transition, len(b.transitions))
	for from, ts := range b.transitions {
		transitions[from] = append([]transition{}, ts...)
	}

	mainline := append([]domain.Status{}, b.mainline...)
	steps := make(map[domain.Status]int, len(mainline))
	for i, s := range mainline {
		steps[s] = i + 1
	}

	return &Lifecycle{
		transitions: transitions,
		mainline:    mainline,
		steps:       steps,
	}
}

// PermittedActions returns the actions offered at the given status, in
// configuration order. The slice is a copy; callers may reorder it.
func (l *Lifecycle) PermittedActions(from domain.Status) []Action {
	ts := l.transitions[from]
	if len(ts) == 0 {
		return nil
	}
	actions := make([]Action, 0, len(ts))
	for _, t := range ts {
		actions = append(actions, t.action)
	}
	return actions
}

// Target returns the status the action leads to from the given status.
// ok is false when the lifecycle does not offer the action there.
func (l *Lifecycle) Target(from domain.Status, action Action) (domain.Status, bool) {
	for _, t := range l.transitions[from] {
		if t.action == action {
			return t.to, true
		}
	}
	return "", false
}

// Offers reports whether the action is offered at the given status.
func (l *Lifecycle) Offers(from domain.Status, action Action) bool {
	_, ok := l.Target(from, action)
	return ok
}

// Progress returns the 1-based mainline step of the status and the total
// number of steps. Off-mainline statuses report step 0.
func (l *Lifecycle) Progress(s domain.Status) (step, total int) {
	return l.steps[s], len(l.mainline)
}

// Mainline returns a copy of the happy path in order.
func (l *Lifecycle) Mainline() []domain.Status {
	return append([]domain.Status{}, l.mainline...)
}

var (
	claimLifecycle     = newClaimLifecycle()
	allowanceLifecycle = newAllowanceLifecycle()
)

// ClaimLifecycle returns the expense claim lifecycle. Claims pass three
// review stages and a finance booking step before settlement.
func ClaimLifecycle() *Lifecycle {
	return claimLifecycle
}

// AllowanceLifecycle returns the allowance request lifecycle. Allowances
// carry a single manager review and flow through payroll instead of
// finance booking.
func AllowanceLifecycle() *Lifecycle {
	return allowanceLifecycle
}

// ForKind returns the lifecycle for a document kind ("claim" or
// "allowance"); unknown kinds fall back to the claim lifecycle.
func ForKind(kind string) *Lifecycle {
	if kind == "allowance" {
		return allowanceLifecycle
	}
	return claimLifecycle
}

func newClaimLifecycle() *Lifecycle {
	b := NewBuilder()

	b.Configure(domain.StatusDraft).
		Permit(ActionSubmit, domain.StatusSubmitted)

	b.Configure(domain.StatusSubmitted).
		Permit(ActionRoute, domain.StatusPendingManager)

	b.Configure(domain.StatusPendingManager).
		Permit(ActionApprove, domain.StatusPendingHR).
		Permit(ActionReturn, domain.StatusReturned).
		Permit(ActionReject, domain.StatusRejected)

	b.Configure(domain.StatusPendingHR).
		Permit(ActionApprove, domain.StatusPendingFinance).
		Permit(ActionReturn, domain.StatusReturned).
		Permit(ActionReject, domain.StatusRejected)

	b.Configure(domain.StatusPendingFinance).
		Permit(ActionApprove, domain.StatusApproved).
		Permit(ActionReturn, domain.StatusReturned).
		Permit(ActionReject, domain.StatusRejected)

	b.Configure(domain.StatusApproved).
		Permit(ActionFinanceApprove, domain.StatusFinanceApproved)

	b.Configure(domain.StatusFinanceApproved).
		Permit(ActionSettle, domain.StatusSettled)

	b.Configure(domain.StatusReturned).
		Permit(ActionResubmit, domain.StatusSubmitted)

	// Reopening a rejected claim is an admin affordance; the backend
	// records it as a transition back to returned.
	b.Configure(domain.StatusRejected).
		Permit(ActionReopen, domain.StatusReturned)

	return b.Mainline(
		domain.StatusDraft,
		domain.StatusSubmitted,
		domain.StatusPendingManager,
		domain.StatusPendingHR,
		domain.StatusPendingFinance,
		domain.StatusApproved,
		domain.StatusFinanceApproved,
		domain.StatusSettled,
	).Build()
}

func newAllowanceLifecycle() *Lifecycle {
	b := NewBuilder()

	b.Configure(domain.StatusDraft).
		Permit(ActionSubmit, domain.StatusSubmitted)

	b.Configure(domain.StatusSubmitted).
		Permit(ActionRoute, domain.StatusPendingManager)

	b.Configure(domain.StatusPendingManager).
		Permit(ActionApprove, domain.StatusApproved).
		Permit(ActionReturn, domain.StatusReturned).
		Permit(ActionReject, domain.StatusRejected)

	b.Configure(domain.StatusApproved).
		Permit(ActionPayroll, domain.StatusPayrollReady)

	b.Configure(domain.StatusPayrollReady).
		Permit(ActionSettle, domain.StatusSettled)

	b.Configure(domain.StatusReturned).
		Permit(ActionResubmit, domain.StatusSubmitted)

	b.Configure(domain.StatusRejected).
		Permit(ActionReopen, domain.StatusReturned)

	return b.Mainline(
		domain.StatusDraft,
		domain.StatusSubmitted,
		domain.StatusPendingManager,
		domain.StatusApproved,
		domain.StatusPayrollReady,
		domain.StatusSettled,
	).Build()
}
