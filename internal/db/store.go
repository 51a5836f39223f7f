// Package db defines the key-value store contract used for the
// embedding cache, plus its error taxonomy.
package db

import (
	"context"
	"time"
)

// Store is the key-value contract the embedding cache depends on.
type Store interface {
	// Get retrieves a value by key. Returns ErrKeyNotFound for a
	// missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	// SetWithTTL stores a value with an expiration.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// Close shuts down the client.
	Close()
}
