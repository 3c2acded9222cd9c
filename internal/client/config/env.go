package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvConfig          = "AUTOSCANML_CONFIG"
	EnvAPI             = "AUTOSCANML_API"
	EnvTimeout         = "AUTOSCANML_TIMEOUT"
	EnvDataDir         = "AUTOSCANML_DATA_DIR"
	EnvReportsDir      = "AUTOSCANML_REPORTS_DIR"
	EnvSealStore       = "AUTOSCANML_SEAL_STORE"
	EnvNotifyURL       = "AUTOSCANML_NOTIFY_URL"
	EnvArchiveBucket   = "AUTOSCANML_ARCHIVE_BUCKET"
	EnvArchiveRegion   = "AUTOSCANML_ARCHIVE_REGION"
	EnvArchiveEndpoint = "AUTOSCANML_ARCHIVE_ENDPOINT"
	EnvArchivePrefix   = "AUTOSCANML_ARCHIVE_PREFIX"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv seeds the process environment from .env files. Missing files
// are skipped and variables already set win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env.local", ".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// LoadEnv overlays cfg with AUTOSCANML_* variables. A nil lookup means
// os.LookupEnv.
func LoadEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strs := []struct {
		key string
		dst *string
	}{
		{EnvAPI, &cfg.APIBaseURL},
		{EnvDataDir, &cfg.DataDir},
		{EnvReportsDir, &cfg.ReportsDir},
		{EnvNotifyURL, &cfg.NotifyURL},
		{EnvArchiveBucket, &cfg.Archive.Bucket},
		{EnvArchiveRegion, &cfg.Archive.Region},
		{EnvArchiveEndpoint, &cfg.Archive.Endpoint},
		{EnvArchivePrefix, &cfg.Archive.Prefix},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup(EnvTimeout); ok {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.RequestTimeout = d
	}

	if v, ok := lookup(EnvSealStore); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSealStore, err)
		}
		cfg.SealStore = b
	}

	return nil
}

// parseTimeout accepts Go durations and bare integers as seconds.
func parseTimeout(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
