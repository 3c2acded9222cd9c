// Package metadata is the client-local key/value store. It keeps the
// remembered-user list, the authenticated username and UI preferences.
//
// Get returns (nil, nil) for a missing key.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
