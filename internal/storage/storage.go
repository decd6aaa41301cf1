// Package storage is the dashboard's durable local key/value state, the
// equivalent of a browser's local storage. Values are JSON documents
// stored as raw bytes.
package storage

import (
	"context"
)

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Storage is a small persistent key/value store.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Get retrieves the stored value for a key.
	// Returns nil, nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value for a key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
