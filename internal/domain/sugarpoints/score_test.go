package sugarpoints

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConvert_ScalesPer100g(t *testing.T) {
	q, err := Convert(FoodNutrientProfile{CarbsPer100g: 14, FatPer100g: 0.2, ProteinPer100g: 0.3}, 150)
	require.NoError(t, err)
	require.InDelta(t, 21.0, q.Carbs, 1e-9)
	require.InDelta(t, 0.3, q.Fat, 1e-9)
	require.InDelta(t, 0.45, q.Protein, 1e-9)

	rounded := convertRounded(t, FoodNutrientProfile{CarbsPer100g: 33.33}, 55)
	require.Equal(t, 18.3, rounded.Carbs)
	require.Zero(t, rounded.Fat)
}

func TestConvert_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		profile FoodNutrientProfile
		grams   float64
		portion bool
	}{
		{name: "zero portion", profile: FoodNutrientProfile{CarbsPer100g: 10}, grams: 0, portion: true},
		{name: "negative portion", profile: FoodNutrientProfile{CarbsPer100g: 10}, grams: -5, portion: true},
		{name: "nan portion", profile: FoodNutrientProfile{CarbsPer100g: 10}, grams: math.NaN(), portion: true},
		{name: "negative carbs", profile: FoodNutrientProfile{CarbsPer100g: -1}, grams: 100},
		{name: "infinite fat", profile: FoodNutrientProfile{CarbsPer100g: 1, FatPer100g: math.Inf(1)}, grams: 100},
		{name: "negative protein", profile: FoodNutrientProfile{ProteinPer100g: -0.1}, grams: 100},
		{name: "huge portion", profile: FoodNutrientProfile{CarbsPer100g: 100}, grams: 1e20, portion: true},
		{name: "portion above cap", profile: FoodNutrientProfile{CarbsPer100g: 10}, grams: MaxPortionGrams + 1, portion: true},
		{name: "carbs above 100g", profile: FoodNutrientProfile{CarbsPer100g: math.MaxFloat64}, grams: 1e10, portion: true},
		{name: "carbs above 100g with valid portion", profile: FoodNutrientProfile{CarbsPer100g: 100.5}, grams: 100},
		{name: "fat above 100g", profile: FoodNutrientProfile{FatPer100g: 250}, grams: 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ScoreEntry(tc.profile, tc.grams)
			require.Error(t, err)
			require.True(t, IsValidationError(err))
			if tc.portion {
				var portionErr *InvalidPortionError
				require.ErrorAs(t, err, &portionErr)
				return
			}
			var nutrientErr *InvalidNutrientValueError
			require.ErrorAs(t, err, &nutrientErr)
		})
	}
}

func TestScoreEntry_LargestInputStaysNonNegative(t *testing.T) {
	score, err := ScoreEntry(FoodNutrientProfile{CarbsPer100g: MaxPer100g, FatPer100g: MaxPer100g, ProteinPer100g: MaxPer100g}, MaxPortionGrams)
	require.NoError(t, err)
	require.Equal(t, Score{SugarPoints: 10000, SugarPointBlocks: 1667}, score)
}

func TestScoreEntry_Examples(t *testing.T) {
	score, err := ScoreEntry(FoodNutrientProfile{CarbsPer100g: 14, FatPer100g: 0.2, ProteinPer100g: 0.3}, 150)
	require.NoError(t, err)
	require.Equal(t, Score{SugarPoints: 21, SugarPointBlocks: 4}, score)

	zero, err := ScoreEntry(FoodNutrientProfile{}, 100)
	require.NoError(t, err)
	require.Equal(t, Score{}, zero)
	require.Equal(t, "Nil SugarPoints", zero.Display())
	require.Equal(t, "21 SugarPoints", score.Display())
}

func TestScoreEntry_RoundsHalfAwayFromZero(t *testing.T) {
	score, err := ScoreEntry(FoodNutrientProfile{CarbsPer100g: 25}, 10)
	require.NoError(t, err)
	require.Equal(t, 3, score.SugarPoints)
	require.Equal(t, 1, score.SugarPointBlocks)

	score, err = ScoreEntry(FoodNutrientProfile{CarbsPer100g: 9}, 100)
	require.NoError(t, err)
	require.Equal(t, 9, score.SugarPoints)
	require.Equal(t, 2, score.SugarPointBlocks)
}

func TestScoreEntry_Idempotent(t *testing.T) {
	profile := FoodNutrientProfile{CarbsPer100g: 47.3, FatPer100g: 3}
	first, err := ScoreEntry(profile, 83)
	require.NoError(t, err)
	second, err := ScoreEntry(profile, 83)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestScoreEntry_MonotonicInPortion(t *testing.T) {
	profile := FoodNutrientProfile{CarbsPer100g: 12.7}
	prev := -1
	for grams := 1.0; grams <= 600; grams += 0.5 {
		score, err := ScoreEntry(profile, grams)
		require.NoError(t, err)
		require.GreaterOrEqual(t, score.SugarPoints, prev, "grams=%v", grams)
		prev = score.SugarPoints
	}
}

func TestNewFoodEntry_DerivesScore(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	entry, err := NewFoodEntry("e1", "u1", "  Apple ", FoodNutrientProfile{CarbsPer100g: 14}, 150, MealBreakfast, at)
	require.NoError(t, err)
	require.Equal(t, "Apple", entry.Name)
	require.Equal(t, Score{SugarPoints: 21, SugarPointBlocks: 4}, entry.Score())

	entry.PortionGrams = 300
	require.NoError(t, entry.Rescore())
	require.Equal(t, 42, entry.SugarPoints)
	require.Equal(t, 7, entry.SugarPointBlocks)

	_, err = NewFoodEntry("e2", "u1", "Apple", FoodNutrientProfile{CarbsPer100g: 14}, 150, MealType("brunch"), at)
	var mealErr *InvalidMealTypeError
	require.ErrorAs(t, err, &mealErr)
}

func TestParseMealType(t *testing.T) {
	meal, err := ParseMealType(" Dinner ")
	require.NoError(t, err)
	require.Equal(t, MealDinner, meal)

	_, err = ParseMealType("")
	require.Error(t, err)
}

func convertRounded(t *testing.T, profile FoodNutrientProfile, grams float64) Quantities {
	t.Helper()
	q, err := Convert(profile, grams)
	require.NoError(t, err)
	return q.Rounded()
}
