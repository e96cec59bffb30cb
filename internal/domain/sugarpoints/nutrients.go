package sugarpoints

import "math"

const (
	// MaxPer100g bounds each nutrient: 100g of food holds at most 100g of any macro.
	MaxPer100g = 100.0
	// MaxPortionGrams is the largest single portion accepted.
	MaxPortionGrams = 10000.0
)

// FoodNutrientProfile is the nutrient density of a food as declared per 100g.
// Missing fat or protein values are zero.
type FoodNutrientProfile struct {
	CarbsPer100g   float64 `json:"carbsPer100g"`
	FatPer100g     float64 `json:"fatPer100g,omitempty"`
	ProteinPer100g float64 `json:"proteinPer100g,omitempty"`
}

// Validate checks every field is a finite number in [0, MaxPer100g].
func (p FoodNutrientProfile) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"carbsPer100g", p.CarbsPer100g},
		{"fatPer100g", p.FatPer100g},
		{"proteinPer100g", p.ProteinPer100g},
	}
	for _, f := range fields {
		if !isFinite(f.value) || f.value < 0 || f.value > MaxPer100g {
			return &InvalidNutrientValueError{Field: f.name, Value: f.value}
		}
	}
	return nil
}

// Quantities holds absolute consumed grams at full precision.
type Quantities struct {
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Protein float64 `json:"protein"`
}

// Rounded returns the quantities rounded to one decimal place for display.
func (q Quantities) Rounded() Quantities {
	return Quantities{
		Carbs:   roundTo(q.Carbs, 1),
		Fat:     roundTo(q.Fat, 1),
		Protein: roundTo(q.Protein, 1),
	}
}

// ValidatePortion rejects zero, negative, oversized and non-finite gram amounts.
func ValidatePortion(grams float64) error {
	if !isFinite(grams) || grams <= 0 || grams > MaxPortionGrams {
		return &InvalidPortionError{Grams: grams}
	}
	return nil
}

// Convert scales the per-100g profile to the consumed portion.
func Convert(profile FoodNutrientProfile, portionGrams float64) (Quantities, error) {
	if err := ValidatePortion(portionGrams); err != nil {
		return Quantities{}, err
	}
	if err := profile.Validate(); err != nil {
		return Quantities{}, err
	}
	return Quantities{
		Carbs:   scale(profile.CarbsPer100g, portionGrams),
		Fat:     scale(profile.FatPer100g, portionGrams),
		Protein: scale(profile.ProteinPer100g, portionGrams),
	}, nil
}

func scale(per100g, grams float64) float64 {
	return per100g * grams / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundHalfAway rounds to the nearest integer, ties away from zero.
func roundHalfAway(v float64) int {
	return int(math.Round(v))
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
