package browser

import (
	"errors"
	"fmt"
	"time"
)

// ElementNotFoundError reports a bid that resolved to no element on the
// active page.
type ElementNotFoundError struct {
	Bid string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("no element found with bid %q", e.Bid)
}

// ActionabilityError reports an element that exists but could not be acted
// on: obscured by another element, not stable, not visible, outside the
// viewport. These failures are recoverable by retrying with force enabled.
type ActionabilityError struct {
	Op  string
	Err error
}

func (e *ActionabilityError) Error() string {
	return fmt.Sprintf("%s: element not actionable: %v", e.Op, e.Err)
}

func (e *ActionabilityError) Unwrap() error { return e.Err }

// TimeoutError reports an operation that exceeded its budget.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s", e.Op, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// NavigationError reports a failed page navigation.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("navigation failed: %v", e.Err)
	}
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// IsActionability reports whether err is (or wraps) an ActionabilityError.
func IsActionability(err error) bool {
	var ae *ActionabilityError
	return errors.As(err, &ae)
}
