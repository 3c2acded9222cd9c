// Package config loads runtime configuration for the AutoScanML CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see Default).
//  2. Optional JSON or YAML file chosen by extension (--config or
//     AUTOSCANML_CONFIG).
//  3. Environment variables, optionally seeded from .env files.
//  4. Command-line flags that were explicitly set.
//
// # File schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	api: http://localhost:5000
//	request_timeout: 30s
//	data_dir: /home/me/.local/share/autoscanml
//	seal_store: true
//	notify_url: ntfy://ntfy.sh/my-scans
//	archive:
//	  bucket: scan-reports
//	  region: us-east-1
//	  endpoint: http://127.0.0.1:9000
//	  prefix: autoscanml
//
// # Environment
//
//	AUTOSCANML_CONFIG           config file path
//	AUTOSCANML_API              API base URL
//	AUTOSCANML_TIMEOUT          per-request timeout ("30s", "0" disables)
//	AUTOSCANML_DATA_DIR         local state directory
//	AUTOSCANML_REPORTS_DIR      download directory for report PDFs
//	AUTOSCANML_SEAL_STORE       encrypt the local store ("true"/"false")
//	AUTOSCANML_NOTIFY_URL       shoutrrr URL for scan notifications
//	AUTOSCANML_ARCHIVE_BUCKET   S3 bucket for report archive
//	AUTOSCANML_ARCHIVE_REGION
//	AUTOSCANML_ARCHIVE_ENDPOINT
//	AUTOSCANML_ARCHIVE_PREFIX
package config
