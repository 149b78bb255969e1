package workflow

import "errors"

var (
	// ErrUnknownAction indicates an action string outside the known set.
	ErrUnknownAction = errors.New("unknown workflow action")
)
