package mining

import (
	"context"
	"errors"
)

// ErrResultNotFound indicates no result set is stored under the
// requested key.
var ErrResultNotFound = errors.New("result set not found")

// ResultStore persists mined result sets keyed by an opaque string,
// typically a dataset fingerprint combined with the threshold used.
// Implementations live in infrastructure/storage.
type ResultStore interface {
	// Save stores a result set under key, replacing any previous value.
	Save(ctx context.Context, key string, rs ResultSet) error

	// Load returns the result set stored under key, or
	// ErrResultNotFound.
	Load(ctx context.Context, key string) (ResultSet, error)

	// Delete removes the result set stored under key. Deleting a
	// missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every stored key.
	Keys(ctx context.Context) ([]string, error)
}
