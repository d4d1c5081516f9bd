// Package metadata is a small key/value repository over the client's
// SQLite "metadata" table. The session layer keeps its credential and
// identity snapshot here.
package metadata

import (
	"context"
)

// Repository stores opaque byte values under string keys.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
