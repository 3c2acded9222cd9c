// Package models defines the client-side data model of AutoScanML: the
// credentials kept for quick re-login, the signup draft, the read-only
// records served by the scan API and the upload file handle.
package models
