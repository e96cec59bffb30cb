package foodlog

import (
	"context"
	"errors"
	"time"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// ErrEntryNotFound is returned by repositories when an entry does not exist
// for the given user.
var ErrEntryNotFound = errors.New("food entry not found")

// EntryRepository persists food entries. ListRange returns entries with
// from <= Timestamp < to ordered chronologically.
type EntryRepository interface {
	Create(ctx context.Context, entry sugarpoints.FoodEntry) error
	Update(ctx context.Context, entry sugarpoints.FoodEntry) error
	Delete(ctx context.Context, userID, entryID string) error
	Get(ctx context.Context, userID, entryID string) (sugarpoints.FoodEntry, bool, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]sugarpoints.FoodEntry, error)
}

// DayCache stores computed daily aggregates keyed by user and date. Every
// user-day carries a version that Invalidate bumps. Get reports the current
// version even on a miss, and Set only stores when that version is still
// current, so an aggregate read before a write can never be cached after it.
type DayCache interface {
	Get(ctx context.Context, userID, date string) (agg sugarpoints.DailyAggregate, version int64, found bool, err error)
	Set(ctx context.Context, userID, date string, version int64, agg sugarpoints.DailyAggregate, ttl time.Duration) error
	Invalidate(ctx context.Context, userID, date string) error
}

// TargetProvider resolves a user's daily SugarPoints target.
type TargetProvider interface {
	DailyTarget(ctx context.Context, userID string) (int, error)
}
