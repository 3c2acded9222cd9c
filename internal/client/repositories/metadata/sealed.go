package metadata

import (
	"context"
	"fmt"
)

// Sealer encrypts values bound to additional data.
type Sealer interface {
	Seal(plaintext, additional []byte) []byte
	Open(sealed, additional []byte) ([]byte, error)
}

// SealedRepository encrypts every value before handing it to the wrapped
// repository. The key name is used as additional data, so ciphertexts cannot
// be swapped between keys.
type SealedRepository struct {
	next   Repository
	sealer Sealer
}

func NewSealedRepository(next Repository, sealer Sealer) *SealedRepository {
	return &SealedRepository{next: next, sealer: sealer}
}

func (r *SealedRepository) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := r.next.Get(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}
	value, err := r.sealer.Open(sealed, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SealedRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.next.Set(ctx, key, r.sealer.Seal(value, []byte(key)))
}

func (r *SealedRepository) Delete(ctx context.Context, key string) error {
	return r.next.Delete(ctx, key)
}

func (r *SealedRepository) Clear(ctx context.Context) error {
	return r.next.Clear(ctx)
}

func (r *SealedRepository) List(ctx context.Context) (map[string][]byte, error) {
	all, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(all))
	for key, sealed := range all {
		value, err := r.sealer.Open(sealed, []byte(key))
		if err != nil {
			return nil, fmt.Errorf("failed to open metadata[%s]: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}
