package actions

import "sync/atomic"

// Process-wide demo-mode default, consulted when an ActionSet is built
// without an explicit mode. Off unless enabled.
var globalDemoMode atomic.Bool

// SetGlobalDemoMode enables or disables demo mode for action sets that do
// not set one explicitly. Enabled resolves to DemoDefault.
func SetGlobalDemoMode(enabled bool) {
	globalDemoMode.Store(enabled)
}

// GlobalDemoMode reports the process-wide demo-mode default.
func GlobalDemoMode() bool {
	return globalDemoMode.Load()
}
