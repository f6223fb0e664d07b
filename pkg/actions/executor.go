package actions

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/entrhq/actionspace/pkg/browser"
	"github.com/entrhq/actionspace/pkg/logging"
)

// ForceRetryMarker, when present anywhere in submitted code, enables the
// forced actionability retry for that execution even if the set was built
// without WithRetryWithForce. A plain substring scan, so the marker also
// triggers from inside comments or string literals.
const ForceRetryMarker = "OVERRIDE_RETRY_WITH_FORCE=True"

var (
	execLogOnce sync.Once
	execLogger  *logging.Logger
)

func execLog() *logging.Logger {
	execLogOnce.Do(func() {
		execLogger, _ = logging.New("executor")
	})
	return execLogger
}

// Execute parses code against the set and runs its actions in order against
// page. sendMessage and reportInfeasible deliver chat-level output to the
// surrounding environment; either may be nil if the set excludes the
// corresponding actions.
//
// Each invocation gets a fresh Scope carried on the context, so concurrent
// executions over different pages never observe each other's active page or
// demo settings. Execution stops at the first failing action; the failure is
// wrapped in a UserCodeError naming the action that failed.
func (s *ActionSet) Execute(ctx context.Context, code string, page browser.Page, sendMessage, reportInfeasible MessageFunc) error {
	calls, err := ParseCalls(code, s.strict)
	if err != nil {
		return fmt.Errorf("failed to parse agent code: %w", err)
	}
	if len(calls) == 0 {
		return &ParseError{Line: 1, Message: "no action found in agent code"}
	}
	if !s.multiAction && len(calls) > 1 {
		return &ParseError{Line: 1, Message: fmt.Sprintf("only one action is allowed per step, got %d", len(calls))}
	}
	for _, call := range calls {
		if _, ok := s.byName[call.Name]; !ok {
			return &ParseError{Line: 1, Message: fmt.Sprintf("unknown action %q", call.Name)}
		}
	}

	if sendMessage == nil {
		sendMessage = rejectMessage("send_msg_to_user")
	}
	if reportInfeasible == nil {
		reportInfeasible = rejectMessage("report_infeasible")
	}

	demoMode := s.demoMode
	if demoMode == "" {
		demoMode = DemoOff
		if GlobalDemoMode() {
			demoMode = DemoDefault
		}
	}
	retryWithForce := s.retryWithForce || strings.Contains(code, ForceRetryMarker)

	scope := NewScope(page, sendMessage, reportInfeasible, demoMode, retryWithForce)
	ctx = WithScope(ctx, scope)

	log := execLog()
	log.Debugf("execution %s: %d action(s), demo=%s, force=%v", scope.ID(), len(calls), demoMode, retryWithForce)
	for _, call := range calls {
		spec := s.byName[call.Name]
		log.Debugf("execution %s: %s", scope.ID(), ToCode(call))
		if err := spec.run(ctx, call); err != nil {
			log.Warnf("execution %s: %s failed: %v", scope.ID(), call.Name, err)
			return &UserCodeError{Action: call.Name, Err: err}
		}
	}
	return nil
}

func rejectMessage(action string) MessageFunc {
	return func(ctx context.Context, text string) error {
		return fmt.Errorf("%s is not wired: no callback was provided", action)
	}
}
