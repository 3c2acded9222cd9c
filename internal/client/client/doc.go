// Package client talks to the AutoScanML REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) with one
//     method per endpoint: login, signup OTP, password reset, change
//     password, model upload and the read-only dashboard listings.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that stamps every
//     call with an X-Request-ID, applies a per-request timeout and maps
//     failures to the errors below. It never retries.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the client SQLite store and applies the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *RequestError carrying the server-supplied message; a 401 also matches
// ErrUnauthorized with errors.Is.
package client
