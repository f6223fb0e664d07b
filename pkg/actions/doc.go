// Package actions implements the browser action catalog and the controlled
// execution core that dispatches agent-authored action code against a live
// page.
//
// # Architecture
//
// The package is built around four pieces:
//
//  1. Scope: the per-invocation execution context (active page, user-message
//     and infeasible-report callbacks, demo mode, force-retry policy),
//     carried on a context.Context so concurrent executions never observe
//     each other's values.
//  2. Catalog: the fixed set of named operations (pointer, keyboard,
//     navigation, tab, file upload, chat) with their signatures,
//     descriptions and example invocations. Built once per process.
//  3. ActionSet: a configured selection of the catalog (subsets, allowlist
//     patterns, demo mode, retry policy) that renders the agent-facing
//     description and executes submitted code.
//  4. Executor: parses agent code as a sequence of call statements,
//     validates each against the catalog, binds a fresh Scope and runs the
//     calls strictly sequentially.
//
// # Execution pipeline
//
// Element-level actions share one pipeline: resolve the target by bid on the
// scope's active page, apply demo-mode effects (highlight, visual cursor,
// slowed typing), then invoke the underlying operation through the
// force-retry invoker with a 500ms per-operation budget.
//
// Demo-mode visual effects never fail an action; their errors are logged and
// swallowed. Everything else propagates to the Execute caller as a
// UserCodeError naming the failing action, and the remaining code is not
// executed.
//
// # Example
//
//	set, err := actions.NewActionSet(
//	    actions.WithSubsets(actions.SubsetChat, actions.SubsetBid, actions.SubsetNav),
//	)
//	if err != nil {
//	    return err
//	}
//	err = set.Execute(ctx, `click('a51')`, page, sendMessage, reportInfeasible)
package actions
