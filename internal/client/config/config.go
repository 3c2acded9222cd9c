package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/dmitrijs2005/autoscanml/internal/client/archive"
	"github.com/dmitrijs2005/autoscanml/internal/common"
	"github.com/dmitrijs2005/autoscanml/internal/netx"
)

const (
	DefaultAPIBaseURL     = "http://localhost:5000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultStoreFile      = "client.db"
	KeyFile               = "store.key"
	reportsSubdir         = "reports"
)

var (
	ErrInvalidAPI     = errors.New("api base url must be absolute http(s)")
	ErrInvalidTimeout = errors.New("request timeout must not be negative")
	ErrNoDataDir      = errors.New("data dir is empty")
)

// Config holds runtime settings for the CLI.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DataDir        string
	StoreFile      string
	SealStore      bool
	ReportsDir     string
	NotifyURL      string
	Archive        archive.Settings
	Verbose        bool
	LogJSON        bool
}

// XDGDataDir is the default state directory, e.g. ~/.local/share/autoscanml.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, common.AppName)
}

// XDGConfigDir is where a config file is looked up when none is given.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, common.AppName)
}

// Default returns a Config with built-in defaults applied.
func Default() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

// LoadDefaults populates c with built-in defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = DefaultRequestTimeout
	c.DataDir = XDGDataDir()
	c.StoreFile = DefaultStoreFile
	c.ReportsDir = ""
}

// StorePath is the SQLite file holding client-local state.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.StoreFile) {
		return c.StoreFile
	}
	return filepath.Join(c.DataDir, c.StoreFile)
}

// KeyPath is where the sealed store keeps its install secret.
func (c *Config) KeyPath() string {
	return filepath.Join(c.DataDir, KeyFile)
}

// ReportsPath is the download directory for report PDFs.
func (c *Config) ReportsPath() string {
	if c.ReportsDir != "" {
		return c.ReportsDir
	}
	return filepath.Join(c.DataDir, reportsSubdir)
}

// ArchiveEnabled reports whether completed reports go to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Bucket != ""
}

// Validate checks values that cannot be fixed up later.
func (c *Config) Validate() error {
	if _, err := netx.JoinURL(c.APIBaseURL, "/"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAPI, c.APIBaseURL)
	}
	if c.RequestTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.DataDir == "" {
		return ErrNoDataDir
	}
	return nil
}
