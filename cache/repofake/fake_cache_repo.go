package fakecacherepo

import (
	"context"
	"sync"
	"time"

	"github.com/sounak286/RAKSHA-SATHI/cache"
)

var _ cache.Repo = (*FakeCacheRepo)(nil)

type FakeCacheRepo struct {
	entries  map[string][]cache.Entry
	writeErr error
	readErr  error
	lock     sync.RWMutex
}

func NewFakeCacheRepo() *FakeCacheRepo {
	return &FakeCacheRepo{
		entries: make(map[string][]cache.Entry),
	}
}

// FailWrites makes every subsequent Write return err. Pass nil to restore.
func (cr *FakeCacheRepo) FailWrites(err error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	cr.writeErr = err
}

// FailReads makes every subsequent Latest return err. Pass nil to restore.
func (cr *FakeCacheRepo) FailReads(err error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	cr.readErr = err
}

func (cr *FakeCacheRepo) Write(_ context.Context, key string, payload []byte, at time.Time) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if cr.writeErr != nil {
		return cr.writeErr
	}
	cr.entries[key] = append(cr.entries[key], cache.Entry{
		Key:      key,
		Payload:  append([]byte(nil), payload...),
		CachedAt: at,
	})
	return nil
}

func (cr *FakeCacheRepo) Latest(_ context.Context, key string) (*cache.Entry, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	if cr.readErr != nil {
		return nil, cr.readErr
	}
	entries := cr.entries[key]
	if len(entries) == 0 {
		return nil, cache.ErrEntryNotFound
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if !e.CachedAt.Before(latest.CachedAt) {
			latest = e
		}
	}
	return &latest, nil
}

// Count returns how many entries have been written for key.
func (cr *FakeCacheRepo) Count(key string) int {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	return len(cr.entries[key])
}
