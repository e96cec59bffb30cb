package sugarpoints

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// BlockSize is the number of SugarPoints one SugarPointBlock stands for.
const BlockSize = 6

// Score is the derived SugarPoints result for a single food entry.
type Score struct {
	SugarPoints      int `json:"sugarPoints"`
	SugarPointBlocks int `json:"sugarPointBlocks"`
}

// Display renders the score for feedback text; zero reads as "Nil".
func (s Score) Display() string {
	if s.SugarPoints == 0 {
		return "Nil SugarPoints"
	}
	return fmt.Sprintf("%d SugarPoints", s.SugarPoints)
}

// ScoreEntry derives SugarPoints (grams of carbohydrate consumed, rounded half
// away from zero) and the block count for a portion of food.
func ScoreEntry(profile FoodNutrientProfile, portionGrams float64) (Score, error) {
	q, err := Convert(profile, portionGrams)
	if err != nil {
		return Score{}, err
	}
	// Stored as a 32-bit column; the input bounds keep carbs far below this.
	if q.Carbs > math.MaxInt32 {
		return Score{}, &InvalidPortionError{Grams: portionGrams}
	}
	points := roundHalfAway(q.Carbs)
	return Score{
		SugarPoints:      points,
		SugarPointBlocks: blocksFor(points),
	}, nil
}

func blocksFor(points int) int {
	return roundHalfAway(float64(points) / BlockSize)
}

// MealType buckets an entry within the day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ParseMealType normalises user input into a MealType.
func ParseMealType(raw string) (MealType, error) {
	switch m := MealType(strings.ToLower(strings.TrimSpace(raw))); m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return m, nil
	default:
		return "", &InvalidMealTypeError{Value: raw}
	}
}

// FoodEntry is a logged portion of food. SugarPoints and SugarPointBlocks are
// always the output of ScoreEntry over Profile and PortionGrams.
type FoodEntry struct {
	ID               string              `json:"id"`
	UserID           string              `json:"userId"`
	Name             string              `json:"name"`
	Profile          FoodNutrientProfile `json:"profile"`
	PortionGrams     float64             `json:"portionGrams"`
	MealType         MealType            `json:"mealType"`
	SugarPoints      int                 `json:"sugarPoints"`
	SugarPointBlocks int                 `json:"sugarPointBlocks"`
	Timestamp        time.Time           `json:"timestamp"`
}

// NewFoodEntry validates the inputs and builds an entry with its derived score.
func NewFoodEntry(id, userID, name string, profile FoodNutrientProfile, portionGrams float64, meal MealType, at time.Time) (FoodEntry, error) {
	if _, err := ParseMealType(string(meal)); err != nil {
		return FoodEntry{}, err
	}
	entry := FoodEntry{
		ID:           id,
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		Profile:      profile,
		PortionGrams: portionGrams,
		MealType:     meal,
		Timestamp:    at,
	}
	if err := entry.Rescore(); err != nil {
		return FoodEntry{}, err
	}
	return entry, nil
}

// Rescore recomputes the derived fields from the profile and portion.
func (e *FoodEntry) Rescore() error {
	score, err := ScoreEntry(e.Profile, e.PortionGrams)
	if err != nil {
		return err
	}
	e.SugarPoints = score.SugarPoints
	e.SugarPointBlocks = score.SugarPointBlocks
	return nil
}

// Score returns the entry's derived fields.
func (e FoodEntry) Score() Score {
	return Score{SugarPoints: e.SugarPoints, SugarPointBlocks: e.SugarPointBlocks}
}

// Consumed returns the absolute nutrient quantities of the entry.
func (e FoodEntry) Consumed() Quantities {
	q, err := Convert(e.Profile, e.PortionGrams)
	if err != nil {
		return Quantities{}
	}
	return q
}
