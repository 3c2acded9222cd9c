// Package services holds the client workflows of AutoScanML.
//
// Signup, password reset, login, password change and model upload are
// explicit state machines. Every transition returns an Outcome describing
// what the view should show and where it should navigate; the workflows
// never sleep or render anything themselves. Preferences, dashboard loading,
// the reports list and the settings page are plain services over the same
// API client and the client-local metadata store.
package services
