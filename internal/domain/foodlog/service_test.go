package foodlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
	apperrors "github.com/yanqian/sugarpoints/pkg/errors"
)

func TestService_LogEntryAndDay(t *testing.T) {
	svc, repo, cache := newServiceUnderTest(t, &stubTargets{target: 120})
	ctx := context.Background()

	view, err := svc.LogEntry(ctx, "u1", EntryRequest{
		Name:         "Apple",
		Profile:      sugarpoints.FoodNutrientProfile{CarbsPer100g: 14, FatPer100g: 0.2, ProteinPer100g: 0.3},
		PortionGrams: 150,
		MealType:     "Breakfast",
	})
	require.NoError(t, err)
	require.Equal(t, "entry-1", view.ID)
	require.Equal(t, 21, view.SugarPoints)
	require.Equal(t, 4, view.SugarPointBlocks)
	require.Equal(t, sugarpoints.MealBreakfast, view.MealType)
	require.Equal(t, "2024-05-01", view.Date)
	require.Equal(t, 21.0, view.Consumed.Carbs)
	require.Len(t, repo.entries, 1)

	_, err = svc.LogEntry(ctx, "u1", EntryRequest{
		Name:         "Rice",
		Profile:      sugarpoints.FoodNutrientProfile{CarbsPer100g: 30},
		PortionGrams: 150,
		MealType:     "lunch",
	})
	require.NoError(t, err)
	_, err = svc.LogEntry(ctx, "u1", EntryRequest{
		Name:         "Cucumber",
		Profile:      sugarpoints.FoodNutrientProfile{},
		PortionGrams: 100,
		MealType:     "snack",
	})
	require.NoError(t, err)

	day, err := svc.Day(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, 66, day.Aggregate.TotalSugarPoints)
	require.Equal(t, 12, day.Aggregate.TotalSugarPointBlocks)
	require.Len(t, day.Aggregate.Entries, 3)
	require.Equal(t, "Apple", day.Aggregate.Entries[0].Name)
	require.Equal(t, sugarpoints.SeverityWarning, day.Status.Severity)
	require.Equal(t, 54, day.Status.Remaining)
	require.Equal(t, 45, day.ByMeal[sugarpoints.MealLunch].SugarPoints)
	require.Equal(t, 1, cache.sets)

	_, err = svc.Day(ctx, "u1", "today")
	require.NoError(t, err)
	require.Equal(t, 1, cache.hits)
}

func TestService_EmptyDayIsPerfectStart(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t, nil)

	day, err := svc.Day(context.Background(), "u1", "")
	require.NoError(t, err)
	require.Equal(t, "2024-05-01", day.Date)
	require.Zero(t, day.Aggregate.TotalSugarPoints)
	require.NotNil(t, day.Aggregate.Entries)
	require.Equal(t, "Perfect start", day.Status.Label)
	require.Equal(t, sugarpoints.DefaultTarget, day.Status.Target)
}

func TestService_WritesInvalidateCachedDay(t *testing.T) {
	svc, _, cache := newServiceUnderTest(t, nil)
	ctx := context.Background()

	first, err := svc.LogEntry(ctx, "u1", entryRequest("Bread", 50, 60, "lunch"))
	require.NoError(t, err)
	day, err := svc.Day(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, 30, day.Aggregate.TotalSugarPoints)

	_, err = svc.UpdateEntry(ctx, "u1", first.ID, entryRequest("Bread", 50, 120, "lunch"))
	require.NoError(t, err)
	day, err = svc.Day(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, 60, day.Aggregate.TotalSugarPoints)

	require.NoError(t, svc.DeleteEntry(ctx, "u1", first.ID))
	day, err = svc.Day(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.Zero(t, day.Aggregate.TotalSugarPoints)
	require.GreaterOrEqual(t, cache.invalidations, 3)
}

func TestService_UpdateMovesEntryBetweenDays(t *testing.T) {
	svc, _, cache := newServiceUnderTest(t, nil)
	ctx := context.Background()

	entry, err := svc.LogEntry(ctx, "u1", entryRequest("Pasta", 25, 200, "dinner"))
	require.NoError(t, err)

	moved := entryRequest("Pasta", 25, 200, "dinner")
	yesterday := time.Date(2024, 4, 30, 19, 0, 0, 0, time.UTC)
	moved.Timestamp = &yesterday
	view, err := svc.UpdateEntry(ctx, "u1", entry.ID, moved)
	require.NoError(t, err)
	require.Equal(t, "2024-04-30", view.Date)
	require.Contains(t, cache.invalidated, "u1:2024-05-01")
	require.Contains(t, cache.invalidated, "u1:2024-04-30")

	today, err := svc.Day(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.Zero(t, today.Aggregate.TotalSugarPoints)
	prev, err := svc.Day(ctx, "u1", "2024-04-30")
	require.NoError(t, err)
	require.Equal(t, 50, prev.Aggregate.TotalSugarPoints)
}

func TestService_ValidationErrors(t *testing.T) {
	svc, repo, _ := newServiceUnderTest(t, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		user string
		req  EntryRequest
	}{
		{name: "zero portion", user: "u1", req: entryRequest("Apple", 14, 0, "lunch")},
		{name: "negative carbs", user: "u1", req: entryRequest("Apple", -1, 100, "lunch")},
		{name: "bad meal", user: "u1", req: entryRequest("Apple", 14, 100, "brunch")},
		{name: "missing name", user: "u1", req: entryRequest(" ", 14, 100, "lunch")},
		{name: "missing user", user: " ", req: entryRequest("Apple", 14, 100, "lunch")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.LogEntry(ctx, tc.user, tc.req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, "invalid_input"), "got %v", err)
		})
	}
	require.Empty(t, repo.entries)

	_, err := svc.LogEntry(ctx, "u1", entryRequest("Apple", 14, -3, "lunch"))
	var portionErr *sugarpoints.InvalidPortionError
	require.ErrorAs(t, err, &portionErr)
}

func TestService_NotFound(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t, nil)
	ctx := context.Background()

	_, err := svc.GetEntry(ctx, "u1", "missing")
	require.True(t, apperrors.IsCode(err, "not_found"))

	entry, err := svc.LogEntry(ctx, "u1", entryRequest("Apple", 14, 100, "lunch"))
	require.NoError(t, err)
	_, err = svc.GetEntry(ctx, "u2", entry.ID)
	require.True(t, apperrors.IsCode(err, "not_found"))
	require.True(t, apperrors.IsCode(svc.DeleteEntry(ctx, "u2", entry.ID), "not_found"))
}

func TestService_EntriesAreScopedToTheirOwner(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t, nil)
	ctx := context.Background()

	entry, err := svc.LogEntry(ctx, "alice:x", entryRequest("Rice", 28, 100, "lunch"))
	require.NoError(t, err)

	// "alice" + "x:<id>" joins to the same string as "alice:x" + "<id>".
	crossID := "x:" + entry.ID
	_, err = svc.GetEntry(ctx, "alice", crossID)
	require.True(t, apperrors.IsCode(err, "not_found"), "got %v", err)
	_, err = svc.UpdateEntry(ctx, "alice", crossID, entryRequest("Rice", 28, 300, "lunch"))
	require.True(t, apperrors.IsCode(err, "not_found"), "got %v", err)
	require.True(t, apperrors.IsCode(svc.DeleteEntry(ctx, "alice", crossID), "not_found"))

	owned, err := svc.GetEntry(ctx, "alice:x", entry.ID)
	require.NoError(t, err)
	require.Equal(t, 28, owned.SugarPoints)
}

func TestService_WriteDuringDayReadIsNotCachedStale(t *testing.T) {
	svc, repo, cache := newServiceUnderTest(t, nil)
	ctx := context.Background()

	repo.afterList = func() {
		_, err := svc.LogEntry(ctx, "u1", entryRequest("Bread", 50, 60, "lunch"))
		require.NoError(t, err)
	}
	day, err := svc.Day(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.Zero(t, day.Aggregate.TotalSugarPoints)
	require.Equal(t, 1, cache.staleSets)
	require.Zero(t, cache.sets)

	day, err = svc.Day(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, 30, day.Aggregate.TotalSugarPoints)
	require.Len(t, day.Aggregate.Entries, 1)
	require.Equal(t, 1, cache.sets)

	cached, err := svc.Day(ctx, "u1", "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, 30, cached.Aggregate.TotalSugarPoints)
	require.Equal(t, 1, cache.hits)
}

func TestService_StorageFailure(t *testing.T) {
	svc, repo, _ := newServiceUnderTest(t, nil)
	repo.failWith = errors.New("connection reset")

	_, err := svc.LogEntry(context.Background(), "u1", entryRequest("Apple", 14, 100, "lunch"))
	require.True(t, apperrors.IsCode(err, "storage_error"))
	_, err = svc.Day(context.Background(), "u1", "2024-05-01")
	require.True(t, apperrors.IsCode(err, "storage_error"))
}

func TestService_TargetLookupFallsBackToDefault(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t, &stubTargets{err: errors.New("profile store down")})
	day, err := svc.Day(context.Background(), "u1", "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, 120, day.Status.Target)
}

func TestService_Progress(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t, &stubTargets{target: 75})
	ctx := context.Background()

	for i, carbs := range []float64{40, 90} {
		req := entryRequest(fmt.Sprintf("Meal %d", i), carbs, 100, "lunch")
		at := time.Date(2024, 4, 28+i, 12, 0, 0, 0, time.UTC)
		req.Timestamp = &at
		_, err := svc.LogEntry(ctx, "u1", req)
		require.NoError(t, err)
	}

	view, err := svc.Progress(ctx, "u1", "2024-04-27", "2024-04-30")
	require.NoError(t, err)
	require.Equal(t, 75, view.Target)
	require.Len(t, view.Days, 4)
	require.Equal(t, "2024-04-27", view.Days[0].Date)
	require.Zero(t, view.Days[0].TotalSugarPoints)
	require.Equal(t, 40, view.Days[1].TotalSugarPoints)
	require.Equal(t, sugarpoints.SeverityWarning, view.Days[1].Severity)
	require.Equal(t, 90, view.Days[2].TotalSugarPoints)
	require.Equal(t, sugarpoints.SeverityDanger, view.Days[2].Severity)
	require.Equal(t, 2, view.LoggedDays)
	require.Equal(t, 1, view.DaysOverTarget)
	require.Equal(t, 65.0, view.AverageSugarPoints)

	defaulted, err := svc.Progress(ctx, "u1", "", "")
	require.NoError(t, err)
	require.Len(t, defaulted.Days, 7)
	require.Equal(t, "2024-05-01", defaulted.To)

	_, err = svc.Progress(ctx, "u1", "2024-05-02", "2024-05-01")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.Progress(ctx, "u1", "2023-01-01", "2024-05-01")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_Preview(t *testing.T) {
	svc, repo, _ := newServiceUnderTest(t, nil)
	resp, err := svc.Preview(context.Background(), ScoreRequest{
		Profile:      sugarpoints.FoodNutrientProfile{},
		PortionGrams: 100,
	})
	require.NoError(t, err)
	require.Zero(t, resp.SugarPoints)
	require.Equal(t, "Nil SugarPoints", resp.Display)
	require.Empty(t, repo.entries)

	_, err = svc.Preview(context.Background(), ScoreRequest{PortionGrams: 0})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func entryRequest(name string, carbs, grams float64, meal string) EntryRequest {
	return EntryRequest{
		Name:         name,
		Profile:      sugarpoints.FoodNutrientProfile{CarbsPer100g: carbs},
		PortionGrams: grams,
		MealType:     meal,
	}
}

func newServiceUnderTest(t *testing.T, targets TargetProvider) (*service, *stubRepo, *stubCache) {
	t.Helper()
	repo := &stubRepo{entries: map[string]sugarpoints.FoodEntry{}}
	cache := &stubCache{items: map[string]sugarpoints.DailyAggregate{}, versions: map[string]int64{}}
	svc := NewService(Config{DefaultTarget: 120, Location: time.UTC, MaxProgressDays: 31, DayCacheTTL: time.Minute}, repo, cache, targets, newTestLogger()).(*service)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("entry-%d", seq)
	}
	return svc, repo, cache
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubTargets struct {
	target int
	err    error
}

func (s *stubTargets) DailyTarget(context.Context, string) (int, error) {
	return s.target, s.err
}

type stubRepo struct {
	mu       sync.Mutex
	entries  map[string]sugarpoints.FoodEntry
	order    []string
	failWith error
	// afterList runs once, after ListRange has read its snapshot.
	afterList func()
}

func (r *stubRepo) Create(_ context.Context, entry sugarpoints.FoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	key := entry.UserID + ":" + entry.ID
	r.entries[key] = entry
	r.order = append(r.order, key)
	return nil
}

func (r *stubRepo) Update(_ context.Context, entry sugarpoints.FoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entry.UserID + ":" + entry.ID
	if _, ok := r.entries[key]; !ok {
		return ErrEntryNotFound
	}
	r.entries[key] = entry
	return nil
}

func (r *stubRepo) Delete(_ context.Context, userID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID + ":" + entryID
	if _, ok := r.entries[key]; !ok {
		return ErrEntryNotFound
	}
	delete(r.entries, key)
	return nil
}

func (r *stubRepo) Get(_ context.Context, userID, entryID string) (sugarpoints.FoodEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[userID+":"+entryID]
	return entry, ok, nil
}

func (r *stubRepo) ListRange(_ context.Context, userID string, from, to time.Time) ([]sugarpoints.FoodEntry, error) {
	r.mu.Lock()
	if r.failWith != nil {
		r.mu.Unlock()
		return nil, r.failWith
	}
	out := make([]sugarpoints.FoodEntry, 0)
	for _, key := range r.order {
		e, ok := r.entries[key]
		if !ok || e.UserID != userID || e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
			continue
		}
		out = append(out, e)
	}
	hook := r.afterList
	r.afterList = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type stubCache struct {
	items         map[string]sugarpoints.DailyAggregate
	versions      map[string]int64
	invalidated   []string
	sets          int
	staleSets     int
	hits          int
	invalidations int
}

func (c *stubCache) Get(_ context.Context, userID, date string) (sugarpoints.DailyAggregate, int64, bool, error) {
	key := userID + ":" + date
	agg, ok := c.items[key]
	if ok {
		c.hits++
	}
	return agg, c.versions[key], ok, nil
}

func (c *stubCache) Set(_ context.Context, userID, date string, version int64, agg sugarpoints.DailyAggregate, _ time.Duration) error {
	key := userID + ":" + date
	if c.versions[key] != version {
		c.staleSets++
		return nil
	}
	c.sets++
	c.items[key] = agg
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, userID, date string) error {
	key := userID + ":" + date
	c.invalidations++
	c.invalidated = append(c.invalidated, key)
	c.versions[key]++
	delete(c.items, key)
	return nil
}
