package cache

import (
	"context"
	"errors"
	"time"
)

var ErrEntryNotFound = errors.New("cache entry not found")

// Entry is one successful upstream response. Entries are only ever
// appended; readers want the newest per key.
type Entry struct {
	Key      string
	Payload  []byte // Exact upstream body
	CachedAt time.Time
}

// Repo stores upstream responses for fallback.
type Repo interface {
	Write(ctx context.Context, key string, payload []byte, at time.Time) error
	// Latest returns the most recently cached entry for key, or
	// ErrEntryNotFound.
	Latest(ctx context.Context, key string) (*Entry, error)
}
