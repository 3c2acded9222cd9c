// Package main provides the entry point for the AutoScanML CLI.
//
// AutoScanML uploads machine-learning model files to a scanning service and
// shows the resulting vulnerability reports.
//
// Usage:
//
//	autoscanml                  interactive session
//	autoscanml dashboard        print the dashboard
//	autoscanml upload model.pkl scan one model
//
// See --help for all available options.
package main

func main() {
	Execute()
}
