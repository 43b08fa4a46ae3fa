package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"kino-tickets/internal/booking"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryLock struct {
	held      bool
	expiresAt time.Time
}

// memorySelectionRepository is the single-instance store used when Redis is not configured.
type memorySelectionRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]*memoryLock
	now     func() time.Time
}

func NewMemorySelectionRepository() SelectionRepository {
	return &memorySelectionRepository{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]*memoryLock),
		now:     time.Now,
	}
}

func (r *memorySelectionRepository) Save(ctx context.Context, snap booking.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal selection %s: %w", snap.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.entries[snap.ID] = entry
	return nil
}

func (r *memorySelectionRepository) Find(ctx context.Context, id string) (*booking.Snapshot, error) {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if ok && !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		delete(r.entries, id)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return nil, nil
	}

	var snap booking.Snapshot
	if err := json.Unmarshal(entry.data, &snap); err != nil {
		return nil, fmt.Errorf("decode selection %s: %w", id, err)
	}
	return &snap, nil
}

func (r *memorySelectionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

func (r *memorySelectionRepository) Lock(ctx context.Context, id string, ttl time.Duration) (func(), error) {
	for {
		if lock, ok := r.tryLock(id, ttl); ok {
			return func() {
				r.mu.Lock()
				defer r.mu.Unlock()
				if r.locks[id] == lock {
					delete(r.locks, id)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrSelectionBusy
		case <-time.After(lockRetryInterval):
		}
	}
}

func (r *memorySelectionRepository) tryLock(id string, ttl time.Duration) (*memoryLock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if l, ok := r.locks[id]; ok && l.held && (l.expiresAt.IsZero() || now.Before(l.expiresAt)) {
		return nil, false
	}

	lock := &memoryLock{held: true}
	if ttl > 0 {
		lock.expiresAt = now.Add(ttl)
	}
	r.locks[id] = lock
	return lock, true
}
