package actions

import (
	"context"
	"sync"

	"github.com/entrhq/actionspace/pkg/browser"
	"github.com/google/uuid"
)

// DemoMode selects the visual-feedback style applied to actions so a human
// can follow an automated run.
type DemoMode string

const (
	// DemoOff disables all visual effects and typing delays.
	DemoOff DemoMode = "off"

	// DemoDefault highlights targets and animates the visual cursor with
	// standard styling.
	DemoDefault DemoMode = "default"

	// DemoAllBlue uses the same blue highlight for every target.
	DemoAllBlue DemoMode = "all_blue"

	// DemoOnlyVisible annotates only elements that currently have a
	// visible bounding box.
	DemoOnlyVisible DemoMode = "only_visible_elements"
)

// MessageFunc delivers a text payload to the surrounding environment. Both
// scope callbacks (user messages and infeasible reports) use this shape.
type MessageFunc func(ctx context.Context, text string) error

// Scope holds the ambient values for one code execution: the active page,
// the two environment callbacks, the demo mode and the force-retry policy.
// A Scope belongs to exactly one Execute invocation; it is created when the
// invocation starts and discarded when it ends. Tab actions mutate the
// active page, and that mutation is visible to the rest of the same scope
// only.
type Scope struct {
	mu               sync.Mutex
	page             browser.Page
	sendMessage      MessageFunc
	reportInfeasible MessageFunc
	demoMode         DemoMode
	retryWithForce   bool
	id               string
}

// NewScope creates a scope for one execution.
func NewScope(page browser.Page, sendMessage, reportInfeasible MessageFunc, demoMode DemoMode, retryWithForce bool) *Scope {
	if demoMode == "" {
		demoMode = DemoOff
	}
	return &Scope{
		page:             page,
		sendMessage:      sendMessage,
		reportInfeasible: reportInfeasible,
		demoMode:         demoMode,
		retryWithForce:   retryWithForce,
		id:               uuid.New().String(),
	}
}

// ID returns the unique identifier of this execution, used in log lines.
func (s *Scope) ID() string { return s.id }

// Page returns the currently active page.
func (s *Scope) Page() browser.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetPage switches the active page, e.g. after opening or closing a tab.
func (s *Scope) SetPage(page browser.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// SendMessage returns the user-message callback.
func (s *Scope) SendMessage() MessageFunc { return s.sendMessage }

// ReportInfeasible returns the infeasible-report callback.
func (s *Scope) ReportInfeasible() MessageFunc { return s.reportInfeasible }

// DemoMode returns the demo mode bound for this execution.
func (s *Scope) DemoMode() DemoMode { return s.demoMode }

// RetryWithForce reports whether failed actionability checks may be retried
// with force enabled.
func (s *Scope) RetryWithForce() bool { return s.retryWithForce }

type scopeKey struct{}

// WithScope binds a scope to the context for the duration of one execution.
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// FromContext retrieves the execution scope, or fails with
// ContextNotSetError when the context carries none. Catalog actions call
// this on entry, so invoking an action outside Execute is an immediate,
// typed failure rather than a nil dereference.
func FromContext(ctx context.Context) (*Scope, error) {
	scope, ok := ctx.Value(scopeKey{}).(*Scope)
	if !ok {
		return nil, &ContextNotSetError{}
	}
	return scope, nil
}
