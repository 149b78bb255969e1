package workflow

import "fmt"

// Action identifies an operation a user takes on a claim or an allowance
// request. Actions are recorded verbatim into the approval history; the
// backend is the authority on whether a given action is legal.
type Action string

const (
	ActionSubmit         Action = "submit"
	ActionRoute          Action = "route"
	ActionApprove        Action = "approve"
	ActionFinanceApprove Action = "finance_approve"
	ActionPayroll        Action = "payroll"
	ActionSettle         Action = "settle"
	ActionReject         Action = "reject"
	ActionReturn         Action = "return"
	ActionResubmit       Action = "resubmit"
	ActionReopen         Action = "reopen"
)

var validActions = map[Action]bool{
	ActionSubmit:         true,
	ActionRoute:          true,
	ActionApprove:        true,
	ActionFinanceApprove: true,
	ActionPayroll:        true,
	ActionSettle:         true,
	ActionReject:         true,
	ActionReturn:         true,
	ActionResubmit:       true,
	ActionReopen:         true,
}

// actionLabels maps actions to the text rendered on buttons and in
// history timelines.
var actionLabels = map[Action]string{
	ActionSubmit:         "Submit",
	ActionRoute:          "Route for review",
	ActionApprove:        "Approve",
	ActionFinanceApprove: "Finance approve",
	ActionPayroll:        "Send to payroll",
	ActionSettle:         "Settle",
	ActionReject:         "Reject",
	ActionReturn:         "Return for changes",
	ActionResubmit:       "Resubmit",
	ActionReopen:         "Reopen",
}

// ParseAction converts a raw string into an Action, rejecting unknown values.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !validActions[a] {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// IsValid returns true if the action is part of the closed enumeration.
func (a Action) IsValid() bool {
	return validActions[a]
}

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// Label returns the human-readable form of the action.
func (a Action) Label() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}
