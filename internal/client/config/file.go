package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/autoscanml/internal/client/archive"
	"github.com/dmitrijs2005/autoscanml/internal/timex"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported config file format")

// FileConfig is the on-disk shape. Pointer fields distinguish "absent"
// from zero values so a file can set request_timeout to 0.
type FileConfig struct {
	APIBaseURL     *string           `json:"api" yaml:"api"`
	RequestTimeout *timex.Duration   `json:"request_timeout" yaml:"request_timeout"`
	DataDir        *string           `json:"data_dir" yaml:"data_dir"`
	StoreFile      *string           `json:"store_file" yaml:"store_file"`
	SealStore      *bool             `json:"seal_store" yaml:"seal_store"`
	ReportsDir     *string           `json:"reports_dir" yaml:"reports_dir"`
	NotifyURL      *string           `json:"notify_url" yaml:"notify_url"`
	Archive        *archive.Settings `json:"archive" yaml:"archive"`
	Verbose        *bool             `json:"verbose" yaml:"verbose"`
	LogJSON        *bool             `json:"log_json" yaml:"log_json"`
}

// DefaultFilePath returns the first existing config.{yaml,yml,json} under
// XDGConfigDir, or "".
func DefaultFilePath() string {
	dir := XDGConfigDir()
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile overlays cfg with values from path. The format follows the
// extension: .json, .yaml or .yml.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setIf(&cfg.APIBaseURL, fc.APIBaseURL)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	setIf(&cfg.DataDir, fc.DataDir)
	setIf(&cfg.StoreFile, fc.StoreFile)
	setIf(&cfg.SealStore, fc.SealStore)
	setIf(&cfg.ReportsDir, fc.ReportsDir)
	setIf(&cfg.NotifyURL, fc.NotifyURL)
	setIf(&cfg.Archive, fc.Archive)
	setIf(&cfg.Verbose, fc.Verbose)
	setIf(&cfg.LogJSON, fc.LogJSON)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
