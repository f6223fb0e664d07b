package actions

import "fmt"

// ContextNotSetError reports a catalog action invoked outside any execution
// scope.
type ContextNotSetError struct{}

func (e *ContextNotSetError) Error() string {
	return "no execution scope bound to context: actions must run inside Execute"
}

// UserCodeError wraps an unhandled failure inside submitted agent code,
// tagged with the originating action when determinable.
type UserCodeError struct {
	// Action is the catalog action that failed, or "" when the failure
	// happened before any action ran (e.g. a parse error).
	Action string
	Err    error
}

func (e *UserCodeError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("agent code failed: %v", e.Err)
	}
	return fmt.Sprintf("agent code failed at %s: %v", e.Action, e.Err)
}

func (e *UserCodeError) Unwrap() error { return e.Err }
