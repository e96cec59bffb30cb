package entryrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// MemoryRepository keeps food entries in process memory for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[entryKey]storedEntry
	seq     int64
}

// entryKey keeps user and entry ids apart so no pair of ids can collide.
type entryKey struct {
	userID  string
	entryID string
}

type storedEntry struct {
	entry sugarpoints.FoodEntry
	seq   int64
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[entryKey]storedEntry)}
}

// Create stores a new entry.
func (r *MemoryRepository) Create(_ context.Context, entry sugarpoints.FoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.entries[entryKey{userID: entry.UserID, entryID: entry.ID}] = storedEntry{entry: entry, seq: r.seq}
	return nil
}

// Update replaces an existing entry, keeping its insertion order.
func (r *MemoryRepository) Update(_ context.Context, entry sugarpoints.FoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entryKey{userID: entry.UserID, entryID: entry.ID}
	existing, ok := r.entries[key]
	if !ok {
		return foodlog.ErrEntryNotFound
	}
	existing.entry = entry
	r.entries[key] = existing
	return nil
}

// Delete removes an entry.
func (r *MemoryRepository) Delete(_ context.Context, userID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entryKey{userID: userID, entryID: entryID}
	if _, ok := r.entries[key]; !ok {
		return foodlog.ErrEntryNotFound
	}
	delete(r.entries, key)
	return nil
}

// Get fetches an entry owned by the user.
func (r *MemoryRepository) Get(_ context.Context, userID, entryID string) (sugarpoints.FoodEntry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.entries[entryKey{userID: userID, entryID: entryID}]
	return stored.entry, ok, nil
}

// ListRange returns the user's entries in [from, to) ordered by timestamp,
// then insertion order.
func (r *MemoryRepository) ListRange(_ context.Context, userID string, from, to time.Time) ([]sugarpoints.FoodEntry, error) {
	r.mu.RLock()
	matched := make([]storedEntry, 0)
	for _, stored := range r.entries {
		e := stored.entry
		if e.UserID != userID || e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
			continue
		}
		matched = append(matched, stored)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.entry.Timestamp.Equal(b.entry.Timestamp) {
			return a.entry.Timestamp.Before(b.entry.Timestamp)
		}
		return a.seq < b.seq
	})
	out := make([]sugarpoints.FoodEntry, 0, len(matched))
	for _, stored := range matched {
		out = append(out, stored.entry)
	}
	return out, nil
}

var _ foodlog.EntryRepository = (*MemoryRepository)(nil)
