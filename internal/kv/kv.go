// Package kv provides the key-value persistence layer backing the entity
// store. Snapshots are stored as JSON blobs under one key per entity type
// (tiers, clients, jobs, candidates). Three backends are supported: a local
// file directory, Redis, and PostgreSQL.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence contract used by the entity store. Implementations
// must be safe for use from a single writer; they are not required to support
// concurrent writers.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases any resources held by the backend.
	Close() error
}
