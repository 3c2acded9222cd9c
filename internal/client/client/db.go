package client

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/autoscanml/internal/client/migrations"
	"github.com/dmitrijs2005/autoscanml/internal/dbx"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
	"github.com/pressly/goose/v3"
)

// migrationLogger sends goose progress lines to the client logger at Debug
// so a normal run prints nothing.
type migrationLogger struct {
	log logging.Logger
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.log.Debug(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (l migrationLogger) Fatalf(format string, v ...any) {
	l.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
	os.Exit(1)
}

func RunMigrations(ctx context.Context, db *sql.DB, log logging.Logger) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(migrationLogger{log: log})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the client store at dsn and brings its schema up to
// date.
func InitDatabase(ctx context.Context, dsn string, log logging.Logger) (*sql.DB, error) {
	db, err := dbx.OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", dsn, err)
	}
	return db, nil
}
