// Package store provides durable per-user settings storage. Two
// backends exist: plain JSON files and a SQLite key/value table.
package store

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested record does not exist. Callers
// treat this as "use defaults", never as a failure.
var ErrNotFound = errors.New("record not found")

// Store is a minimal byte-oriented key/value store.
type Store interface {
	// Read returns the record's content, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the record's content, creating it if absent.
	Write(ctx context.Context, key string, data []byte) error

	// Delete removes the record. Deleting an absent record is not an
	// error.
	Delete(ctx context.Context, key string) error
}
