package foodlog

import (
	"time"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// Config holds runtime knobs for the food log.
type Config struct {
	DefaultTarget   int
	Location        *time.Location
	MaxProgressDays int
	DayCacheTTL     time.Duration
}

// EntryRequest is the payload for logging or replacing an entry.
type EntryRequest struct {
	Name         string                          `json:"name"`
	Profile      sugarpoints.FoodNutrientProfile `json:"profile"`
	PortionGrams float64                         `json:"portionGrams"`
	MealType     string                          `json:"mealType"`
	Timestamp    *time.Time                      `json:"timestamp,omitempty"`
}

// EntryView is an entry plus its display values.
type EntryView struct {
	sugarpoints.FoodEntry
	Date     string                 `json:"date"`
	Consumed sugarpoints.Quantities `json:"consumed"`
	Display  string                 `json:"display"`
}

// ScoreRequest asks for a score without persisting anything.
type ScoreRequest struct {
	Profile      sugarpoints.FoodNutrientProfile `json:"profile"`
	PortionGrams float64                         `json:"portionGrams"`
}

// ScoreResponse is the stateless scoring result.
type ScoreResponse struct {
	sugarpoints.Score
	Consumed sugarpoints.Quantities `json:"consumed"`
	Display  string                 `json:"display"`
}

// DayView is the display model of one calendar day.
type DayView struct {
	Date      string                                     `json:"date"`
	Aggregate sugarpoints.DailyAggregate                 `json:"aggregate"`
	ByMeal    map[sugarpoints.MealType]sugarpoints.Score `json:"byMeal"`
	Status    sugarpoints.Status                         `json:"status"`
}

// ProgressPoint summarises one day for progress charts.
type ProgressPoint struct {
	Date                  string               `json:"date"`
	TotalSugarPoints      int                  `json:"totalSugarPoints"`
	TotalSugarPointBlocks int                  `json:"totalSugarPointBlocks"`
	EntryCount            int                  `json:"entryCount"`
	Severity              sugarpoints.Severity `json:"severity"`
}

// ProgressView covers an inclusive range of days.
type ProgressView struct {
	From               string          `json:"from"`
	To                 string          `json:"to"`
	Target             int             `json:"target"`
	Days               []ProgressPoint `json:"days"`
	AverageSugarPoints float64         `json:"averageSugarPoints"`
	DaysOverTarget     int             `json:"daysOverTarget"`
	LoggedDays         int             `json:"loggedDays"`
}
