package daycache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// MemoryCache keeps daily aggregates in process memory.
type MemoryCache struct {
	mu       sync.Mutex
	items    map[dayKey]memoryItem
	versions map[dayKey]int64
	now      func() time.Time
}

type dayKey struct {
	userID string
	date   string
}

type memoryItem struct {
	agg       sugarpoints.DailyAggregate
	expiresAt time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items:    make(map[dayKey]memoryItem),
		versions: make(map[dayKey]int64),
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, userID, date string) (sugarpoints.DailyAggregate, int64, bool, error) {
	key := dayKey{userID: userID, date: date}
	c.mu.Lock()
	defer c.mu.Unlock()
	version := c.versions[key]
	item, ok := c.items[key]
	if !ok {
		return sugarpoints.DailyAggregate{}, version, false, nil
	}
	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		delete(c.items, key)
		return sugarpoints.DailyAggregate{}, version, false, nil
	}
	return cloneAggregate(item.agg), version, true, nil
}

// Set stores agg unless the day was invalidated after version was read.
func (c *MemoryCache) Set(_ context.Context, userID, date string, version int64, agg sugarpoints.DailyAggregate, ttl time.Duration) error {
	key := dayKey{userID: userID, date: date}
	item := memoryItem{agg: cloneAggregate(agg)}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[key] != version {
		return nil
	}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}
	c.items[key] = item
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, userID, date string) error {
	key := dayKey{userID: userID, date: date}
	c.mu.Lock()
	delete(c.items, key)
	c.versions[key]++
	c.mu.Unlock()
	return nil
}

func cloneAggregate(agg sugarpoints.DailyAggregate) sugarpoints.DailyAggregate {
	out := agg
	out.Entries = make([]sugarpoints.FoodEntry, len(agg.Entries))
	copy(out.Entries, agg.Entries)
	return out
}

var _ foodlog.DayCache = (*MemoryCache)(nil)
