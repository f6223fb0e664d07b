package playwrightengine

import (
	"fmt"
	"strings"

	"github.com/entrhq/actionspace/pkg/browser"
)

// Playwright reports failures as driver-side messages, so classification is
// by message content. Element operations that time out do so while waiting
// for the actionability checks (visible, enabled, stable, receives events),
// which is exactly the condition a forced retry bypasses; those classify as
// ActionabilityError.

var actionabilityPhrases = []string{
	"element is not visible",
	"element is not enabled",
	"element is not stable",
	"element is outside of the viewport",
	"intercepts pointer events",
	"element is not attached",
	"waiting for element to be visible",
	"elementFromPoint",
}

func containsAny(msg string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func isTimeoutMessage(msg string) bool {
	return strings.Contains(msg, "Timeout") && strings.Contains(msg, "exceeded")
}

// classifyElementOp maps a driver failure from an element-level operation
// into the typed error kinds the retry policy understands.
func classifyElementOp(op, bid string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if containsAny(msg, actionabilityPhrases) || isTimeoutMessage(msg) {
		return &browser.ActionabilityError{
			Op:  fmt.Sprintf("%s on bid %q", op, bid),
			Err: err,
		}
	}
	return fmt.Errorf("%s failed on bid %q: %w", op, bid, err)
}

// classifyNavigation maps a driver failure from a navigation into the typed
// error kinds.
func classifyNavigation(target string, err error) error {
	if err == nil {
		return nil
	}
	if isTimeoutMessage(err.Error()) {
		return &browser.TimeoutError{Op: "navigate to " + target, Err: err}
	}
	return &browser.NavigationError{URL: target, Err: err}
}
