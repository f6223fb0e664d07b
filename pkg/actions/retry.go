package actions

import "github.com/entrhq/actionspace/pkg/browser"

// CallWithForceRetry invokes op with force disabled. If that fails with a
// recoverable actionability error and allowForce is set, it retries exactly
// once with force enabled, bypassing the engine's actionability checks. Any
// other failure, and any failure of the forced retry, propagates unchanged.
func CallWithForceRetry(op func(force bool) error, allowForce bool) error {
	err := op(false)
	if err == nil || !allowForce {
		return err
	}
	if !browser.IsActionability(err) {
		return err
	}
	return op(true)
}
