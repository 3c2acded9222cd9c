package config

import (
	"os"

	"github.com/spf13/pflag"
)

// Flags holds the persistent command-line flags. Only flags the user set
// explicitly override earlier sources.
type Flags struct {
	fs *pflag.FlagSet

	ConfigFile string
	values     Config
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	d := Default()

	fs.StringVarP(&f.ConfigFile, "config", "c", "", "config file (.json, .yaml or .yml)")
	fs.StringVarP(&f.values.APIBaseURL, "api", "a", d.APIBaseURL, "AutoScanML API base URL")
	fs.DurationVarP(&f.values.RequestTimeout, "timeout", "t", d.RequestTimeout, "per-request timeout (0 disables)")
	fs.StringVar(&f.values.DataDir, "data-dir", d.DataDir, "directory for local state")
	fs.StringVar(&f.values.ReportsDir, "reports-dir", "", "directory for downloaded reports (default <data-dir>/reports)")
	fs.BoolVar(&f.values.SealStore, "seal-store", false, "encrypt the local store")
	fs.StringVar(&f.values.NotifyURL, "notify-url", "", "shoutrrr URL for scan-complete notifications")
	fs.StringVar(&f.values.Archive.Bucket, "archive-bucket", "", "S3 bucket for report archive")
	fs.StringVar(&f.values.Archive.Region, "archive-region", "", "S3 region")
	fs.StringVar(&f.values.Archive.Endpoint, "archive-endpoint", "", "S3-compatible endpoint URL")
	fs.StringVar(&f.values.Archive.Prefix, "archive-prefix", "", "object key prefix")
	fs.BoolVarP(&f.values.Verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVar(&f.values.LogJSON, "log-json", false, "log as JSON")

	return f
}

func (f *Flags) apply(cfg *Config) {
	changed := func(name string) bool { return f.fs.Changed(name) }

	if changed("api") {
		cfg.APIBaseURL = f.values.APIBaseURL
	}
	if changed("timeout") {
		cfg.RequestTimeout = f.values.RequestTimeout
	}
	if changed("data-dir") {
		cfg.DataDir = f.values.DataDir
	}
	if changed("reports-dir") {
		cfg.ReportsDir = f.values.ReportsDir
	}
	if changed("seal-store") {
		cfg.SealStore = f.values.SealStore
	}
	if changed("notify-url") {
		cfg.NotifyURL = f.values.NotifyURL
	}
	if changed("archive-bucket") {
		cfg.Archive.Bucket = f.values.Archive.Bucket
	}
	if changed("archive-region") {
		cfg.Archive.Region = f.values.Archive.Region
	}
	if changed("archive-endpoint") {
		cfg.Archive.Endpoint = f.values.Archive.Endpoint
	}
	if changed("archive-prefix") {
		cfg.Archive.Prefix = f.values.Archive.Prefix
	}
	if changed("verbose") {
		cfg.Verbose = f.values.Verbose
	}
	if changed("log-json") {
		cfg.LogJSON = f.values.LogJSON
	}
}

// Load builds a Config: defaults, then file, then env, then set flags.
// f may be nil when no flags are bound.
func Load(f *Flags, lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := Default()

	path := ""
	if f != nil {
		path = f.ConfigFile
	}
	if path == "" {
		path, _ = lookup(EnvConfig)
	}
	if path == "" {
		path = DefaultFilePath()
	}
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := LoadEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if f != nil {
		f.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
