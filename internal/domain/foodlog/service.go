package foodlog

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
	apperrors "github.com/yanqian/sugarpoints/pkg/errors"
	"github.com/yanqian/sugarpoints/pkg/util"
)

const (
	maxUserIDLen = 64
	maxNameLen   = 120
)

// Service exposes food logging and daily SugarPoints views.
type Service interface {
	Preview(ctx context.Context, req ScoreRequest) (ScoreResponse, error)
	LogEntry(ctx context.Context, userID string, req EntryRequest) (EntryView, error)
	UpdateEntry(ctx context.Context, userID, entryID string, req EntryRequest) (EntryView, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
	GetEntry(ctx context.Context, userID, entryID string) (EntryView, error)
	Day(ctx context.Context, userID, date string) (DayView, error)
	Progress(ctx context.Context, userID, from, to string) (ProgressView, error)
}

type service struct {
	cfg     Config
	repo    EntryRepository
	cache   DayCache
	targets TargetProvider
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService wires up the food log domain.
func NewService(cfg Config, repo EntryRepository, cache DayCache, targets TargetProvider, logger *slog.Logger) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultTarget <= 0 {
		cfg.DefaultTarget = sugarpoints.DefaultTarget
	}
	if cfg.MaxProgressDays <= 0 {
		cfg.MaxProgressDays = 92
	}
	return &service{
		cfg:     cfg,
		repo:    repo,
		cache:   cache,
		targets: targets,
		logger:  logger.With("component", "foodlog.service"),
		now:     util.NowUTC,
		newID:   uuid.NewString,
	}
}

func (s *service) Preview(_ context.Context, req ScoreRequest) (ScoreResponse, error) {
	score, err := sugarpoints.ScoreEntry(req.Profile, req.PortionGrams)
	if err != nil {
		return ScoreResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err)
	}
	q, _ := sugarpoints.Convert(req.Profile, req.PortionGrams)
	return ScoreResponse{Score: score, Consumed: q.Rounded(), Display: score.Display()}, nil
}

func (s *service) LogEntry(ctx context.Context, userID string, req EntryRequest) (EntryView, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return EntryView{}, err
	}
	entry, err := s.buildEntry(s.newID(), userID, req)
	if err != nil {
		return EntryView{}, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return EntryView{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save entry", err)
	}
	s.invalidate(ctx, userID, entry.Timestamp)
	s.logger.Info("food entry logged", "user_id", userID, "entry_id", entry.ID, "sugar_points", entry.SugarPoints, "meal", entry.MealType)
	return s.toView(entry), nil
}

func (s *service) UpdateEntry(ctx context.Context, userID, entryID string, req EntryRequest) (EntryView, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return EntryView{}, err
	}
	existing, err := s.loadEntry(ctx, userID, entryID)
	if err != nil {
		return EntryView{}, err
	}
	if req.Timestamp == nil {
		ts := existing.Timestamp
		req.Timestamp = &ts
	}
	entry, err := s.buildEntry(existing.ID, userID, req)
	if err != nil {
		return EntryView{}, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return EntryView{}, apperrors.Wrap(apperrors.CodeNotFound, "food entry not found", err)
		}
		return EntryView{}, apperrors.Wrap(apperrors.CodeStorage, "failed to update entry", err)
	}
	s.invalidate(ctx, userID, existing.Timestamp)
	if s.dateOf(existing.Timestamp) != s.dateOf(entry.Timestamp) {
		s.invalidate(ctx, userID, entry.Timestamp)
	}
	return s.toView(entry), nil
}

func (s *service) DeleteEntry(ctx context.Context, userID, entryID string) error {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return err
	}
	existing, err := s.loadEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, existing.ID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return apperrors.Wrap(apperrors.CodeNotFound, "food entry not found", err)
		}
		return apperrors.Wrap(apperrors.CodeStorage, "failed to delete entry", err)
	}
	s.invalidate(ctx, userID, existing.Timestamp)
	return nil
}

func (s *service) GetEntry(ctx context.Context, userID, entryID string) (EntryView, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return EntryView{}, err
	}
	entry, err := s.loadEntry(ctx, userID, entryID)
	if err != nil {
		return EntryView{}, err
	}
	return s.toView(entry), nil
}

func (s *service) Day(ctx context.Context, userID, date string) (DayView, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return DayView{}, err
	}
	day, err := s.resolveDate(date)
	if err != nil {
		return DayView{}, err
	}
	key := day.Format(util.DateLayout)

	agg, err := s.aggregateFor(ctx, userID, day)
	if err != nil {
		return DayView{}, err
	}
	target := s.dailyTarget(ctx, userID)
	return DayView{
		Date:      key,
		Aggregate: agg,
		ByMeal:    agg.ByMeal(),
		Status:    sugarpoints.Classify(agg.TotalSugarPoints, target),
	}, nil
}

func (s *service) Progress(ctx context.Context, userID, from, to string) (ProgressView, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return ProgressView{}, err
	}
	end, err := s.resolveDate(to)
	if err != nil {
		return ProgressView{}, err
	}
	var start time.Time
	if strings.TrimSpace(from) == "" {
		start = end.AddDate(0, 0, -6)
	} else if start, err = s.resolveDate(from); err != nil {
		return ProgressView{}, err
	}
	if end.Before(start) {
		return ProgressView{}, apperrors.Wrap(apperrors.CodeInvalidInput, "from must not be after to", nil)
	}
	days := int(end.Sub(start).Hours()/24+0.5) + 1
	if days > s.cfg.MaxProgressDays {
		return ProgressView{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date range too large", nil)
	}

	entries, err := s.repo.ListRange(ctx, userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return ProgressView{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load entries", err)
	}
	buckets := make(map[string][]sugarpoints.FoodEntry, days)
	for _, e := range entries {
		key := s.dateOf(e.Timestamp)
		buckets[key] = append(buckets[key], e)
	}

	target := s.dailyTarget(ctx, userID)
	view := ProgressView{
		From:   start.Format(util.DateLayout),
		To:     end.Format(util.DateLayout),
		Target: target,
		Days:   make([]ProgressPoint, 0, days),
	}
	total := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(util.DateLayout)
		agg := sugarpoints.AggregateDay(buckets[key])
		status := sugarpoints.Classify(agg.TotalSugarPoints, target)
		view.Days = append(view.Days, ProgressPoint{
			Date:                  key,
			TotalSugarPoints:      agg.TotalSugarPoints,
			TotalSugarPointBlocks: agg.TotalSugarPointBlocks,
			EntryCount:            len(agg.Entries),
			Severity:              status.Severity,
		})
		if len(agg.Entries) > 0 {
			view.LoggedDays++
			total += agg.TotalSugarPoints
		}
		if agg.TotalSugarPoints > target {
			view.DaysOverTarget++
		}
	}
	if view.LoggedDays > 0 {
		view.AverageSugarPoints = math.Round(float64(total)/float64(view.LoggedDays)*10) / 10
	}
	return view, nil
}

func (s *service) aggregateFor(ctx context.Context, userID string, day time.Time) (sugarpoints.DailyAggregate, error) {
	key := day.Format(util.DateLayout)
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		agg, v, ok, err := s.cache.Get(ctx, userID, key)
		switch {
		case err != nil:
			s.logger.Warn("day cache lookup failed", "user_id", userID, "date", key, "error", err)
		case ok:
			return agg, nil
		default:
			version, cacheable = v, true
		}
	}
	entries, err := s.repo.ListRange(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return sugarpoints.DailyAggregate{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load entries", err)
	}
	agg := sugarpoints.AggregateDay(entries)
	if cacheable {
		if err := s.cache.Set(ctx, userID, key, version, agg, s.cfg.DayCacheTTL); err != nil {
			s.logger.Warn("day cache save failed", "user_id", userID, "date", key, "error", err)
		}
	}
	return agg, nil
}

func (s *service) buildEntry(id, userID string, req EntryRequest) (sugarpoints.FoodEntry, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return sugarpoints.FoodEntry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name cannot be empty", nil)
	}
	if len([]rune(name)) > maxNameLen {
		return sugarpoints.FoodEntry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name is too long", nil)
	}
	meal, err := sugarpoints.ParseMealType(req.MealType)
	if err != nil {
		return sugarpoints.FoodEntry{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err)
	}
	at := s.now()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		at = req.Timestamp.UTC()
	}
	entry, err := sugarpoints.NewFoodEntry(id, userID, name, req.Profile, req.PortionGrams, meal, at)
	if err != nil {
		return sugarpoints.FoodEntry{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err)
	}
	return entry, nil
}

func (s *service) loadEntry(ctx context.Context, userID, entryID string) (sugarpoints.FoodEntry, error) {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return sugarpoints.FoodEntry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "entry id cannot be empty", nil)
	}
	entry, found, err := s.repo.Get(ctx, userID, entryID)
	if err != nil {
		return sugarpoints.FoodEntry{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load entry", err)
	}
	if !found || entry.UserID != userID {
		return sugarpoints.FoodEntry{}, apperrors.Wrap(apperrors.CodeNotFound, "food entry not found", nil)
	}
	return entry, nil
}

func (s *service) invalidate(ctx context.Context, userID string, at time.Time) {
	if s.cache == nil {
		return
	}
	date := s.dateOf(at)
	if err := s.cache.Invalidate(ctx, userID, date); err != nil {
		s.logger.Warn("day cache invalidation failed", "user_id", userID, "date", date, "error", err)
	}
}

func (s *service) dailyTarget(ctx context.Context, userID string) int {
	if s.targets == nil {
		return s.cfg.DefaultTarget
	}
	target, err := s.targets.DailyTarget(ctx, userID)
	if err != nil || target <= 0 {
		if err != nil {
			s.logger.Warn("daily target lookup failed, using default", "user_id", userID, "error", err)
		}
		return s.cfg.DefaultTarget
	}
	return target
}

func (s *service) resolveDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "today") {
		start, _ := util.DayBounds(s.now(), s.cfg.Location)
		return start, nil
	}
	day, err := util.ParseDate(raw, s.cfg.Location)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
	}
	return day, nil
}

func (s *service) dateOf(at time.Time) string {
	return at.In(s.cfg.Location).Format(util.DateLayout)
}

func (s *service) toView(entry sugarpoints.FoodEntry) EntryView {
	return EntryView{
		FoodEntry: entry,
		Date:      s.dateOf(entry.Timestamp),
		Consumed:  entry.Consumed().Rounded(),
		Display:   entry.Score().Display(),
	}
}

func normalizeUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "user id cannot be empty", nil)
	}
	if len(id) > maxUserIDLen {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "user id is too long", nil)
	}
	return id, nil
}
