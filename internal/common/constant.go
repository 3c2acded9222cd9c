// Package common contains shared constants, sentinel errors and small helpers
// used across AutoScanML client components.
package common

// RequestIDHeaderName carries a per-request correlation id on every outbound
// API call.
const RequestIDHeaderName = "X-Request-ID"

// AppName is used for the data directory, the user agent and the CLI banner.
const AppName = "autoscanml"

// DateLayout is the calendar-date format shown in dashboards and report lists.
const DateLayout = "2006-01-02"

// NotAvailable is displayed when a value cannot be derived.
const NotAvailable = "N/A"
