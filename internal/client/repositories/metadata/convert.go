package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autoscanml/internal/dbx"
)

// ErrSealedStore is returned when a sealed store is opened without its key.
var ErrSealedStore = errors.New("store is sealed")

const infoSealed = "sealed"

// IsSealed reports whether the values in db are stored sealed.
func IsSealed(ctx context.Context, db dbx.DBTX) (bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT value FROM store_info WHERE name = ?`, infoSealed).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read store info: %w", err)
	}
	return v == "true", nil
}

func setSealed(ctx context.Context, db dbx.DBTX, sealed bool) error {
	v := "false"
	if sealed {
		v = "true"
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO store_info (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, infoSealed, v)
	if err != nil {
		return fmt.Errorf("failed to write store info: %w", err)
	}
	return nil
}

// EnsureSealed seals every plaintext value in one transaction. A store that
// is already sealed is left alone. It returns how many values were converted.
func EnsureSealed(ctx context.Context, db *sql.DB, sealer Sealer) (int, error) {
	return convert(ctx, db, true, func(key string, v []byte) ([]byte, error) {
		return sealer.Seal(v, []byte(key)), nil
	})
}

// EnsurePlain opens every sealed value in one transaction. A plaintext store
// is left alone.
func EnsurePlain(ctx context.Context, db *sql.DB, sealer Sealer) (int, error) {
	return convert(ctx, db, false, func(key string, v []byte) ([]byte, error) {
		return sealer.Open(v, []byte(key))
	})
}

func convert(ctx context.Context, db *sql.DB, toSealed bool, fn func(key string, v []byte) ([]byte, error)) (int, error) {
	n := 0
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		sealed, err := IsSealed(ctx, tx)
		if err != nil {
			return err
		}
		if sealed == toSealed {
			return nil
		}

		repo := NewSQLiteRepository(tx)
		values, err := repo.List(ctx)
		if err != nil {
			return err
		}
		for key, v := range values {
			out, err := fn(key, v)
			if err != nil {
				return fmt.Errorf("failed to convert metadata[%s]: %w", key, err)
			}
			if err := repo.Set(ctx, key, out); err != nil {
				return err
			}
			n++
		}
		return setSealed(ctx, tx, toSealed)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
