// Package memory provides durable key-value storage for chat history. Values
// are opaque bytes written whole under a single key; backends are pluggable
// (filesystem, SQLite, in-process map).
package memory

import "context"

// Store is a string-keyed byte store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value under key, overwriting any prior value.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases backend resources.
	Close() error
}
