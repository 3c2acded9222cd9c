// Package cli provides the interactive AutoScanML command-line client.
//
// App drives the login, signup, reset, upload, dashboard, reports and
// settings workflows from a read-eval-print loop. Workflow outcomes are
// printed as-is; delayed navigations are honoured by waiting and then
// running the target screen (login or dashboard).
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends.
package cli
