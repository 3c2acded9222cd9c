package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/autoscanml/internal/client/archive"
	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/config"
	"github.com/dmitrijs2005/autoscanml/internal/client/notify"
	"github.com/dmitrijs2005/autoscanml/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/autoscanml/internal/client/services"
	"github.com/dmitrijs2005/autoscanml/internal/cryptox"
	"github.com/dmitrijs2005/autoscanml/internal/filex"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
)

// deps is everything a command needs, built once from the configuration.
type deps struct {
	cfg           *config.Config
	log           logging.Logger
	db            *sql.DB
	client        *client.HTTPClient
	prefs         *services.Preferences
	uploadOptions []services.UploadOption
}

func setup(ctx context.Context, flags *config.Flags, logOut io.Writer) (*deps, error) {
	cfg, err := config.Load(flags, nil)
	if err != nil {
		return nil, err
	}
	log := logging.New(logOut, cfg.Verbose, cfg.LogJSON)

	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, cfg.StorePath(), log)
	if err != nil {
		return nil, err
	}

	repo, err := openRepository(ctx, cfg, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hc, err := client.NewHTTPClient(cfg.APIBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	d := &deps{
		cfg:    cfg,
		log:    log,
		db:     db,
		client: hc,
		prefs:  services.NewPreferences(repo),
	}

	if cfg.ArchiveEnabled() {
		a, err := archive.New(ctx, cfg.Archive, hc, log)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.uploadOptions = append(d.uploadOptions, services.WithArchiver(a))
	}
	if cfg.NotifyURL != "" {
		n, err := notify.New(cfg.NotifyURL, nil, log)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.uploadOptions = append(d.uploadOptions, services.WithNotifier(n))
	}

	log.Debug(ctx, "client ready", "api", cfg.APIBaseURL, "store", cfg.StorePath(), "sealed", cfg.SealStore)
	return d, nil
}

// openRepository returns the preference store, converting existing values
// when --seal-store was switched since the last run. A store sealed by an
// earlier run is never opened with a freshly generated key.
func openRepository(ctx context.Context, cfg *config.Config, db *sql.DB, log logging.Logger) (metadata.Repository, error) {
	var repo metadata.Repository = metadata.NewSQLiteRepository(db)

	sealed, err := metadata.IsSealed(ctx, db)
	if err != nil {
		return nil, err
	}
	if sealed {
		if _, err := os.Stat(cfg.KeyPath()); err != nil {
			return nil, fmt.Errorf("%w: key %s: %w", metadata.ErrSealedStore, cfg.KeyPath(), err)
		}
	}

	if !cfg.SealStore {
		if !sealed {
			return repo, nil
		}
		sealer, err := loadSealer(cfg)
		if err != nil {
			return nil, err
		}
		n, err := metadata.EnsurePlain(ctx, db, sealer)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "store unsealed", "values", n)
		return repo, nil
	}

	sealer, err := loadSealer(cfg)
	if err != nil {
		return nil, err
	}
	n, err := metadata.EnsureSealed(ctx, db, sealer)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		log.Info(ctx, "store sealed", "values", n)
	}
	return metadata.NewSealedRepository(repo, sealer), nil
}

func loadSealer(cfg *config.Config) (*cryptox.Sealer, error) {
	key, err := cryptox.LoadOrCreateKey(cfg.KeyPath())
	if err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}
	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}
	return sealer, nil
}

func (d *deps) Close() {
	_ = d.client.Close()
	_ = d.db.Close()
}
