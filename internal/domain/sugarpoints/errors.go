package sugarpoints

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrQuizSubmitted is returned when a submitted quiz session is modified or re-scored.
var ErrQuizSubmitted = errors.New("quiz session already submitted")

// InvalidPortionError reports a portion that is zero, negative, above
// MaxPortionGrams or not a finite number.
type InvalidPortionError struct {
	Grams float64
}

func (e *InvalidPortionError) Error() string {
	return fmt.Sprintf("portion must be a positive number of grams up to %g, got %v", MaxPortionGrams, e.Grams)
}

// InvalidNutrientValueError reports a per-100g value outside [0, MaxPer100g]
// or not a finite number.
type InvalidNutrientValueError struct {
	Field string
	Value float64
}

func (e *InvalidNutrientValueError) Error() string {
	return fmt.Sprintf("%s must be between 0 and %g, got %v", e.Field, MaxPer100g, e.Value)
}

// InvalidMealTypeError reports a meal type outside breakfast/lunch/dinner/snack.
type InvalidMealTypeError struct {
	Value string
}

func (e *InvalidMealTypeError) Error() string {
	return fmt.Sprintf("unknown meal type %q (expected breakfast, lunch, dinner or snack)", e.Value)
}

// IncompleteQuizError names the question ids that still lack an answer.
type IncompleteQuizError struct {
	Missing []int
}

func (e *IncompleteQuizError) Error() string {
	ids := make([]string, 0, len(e.Missing))
	for _, id := range e.Missing {
		ids = append(ids, strconv.Itoa(id))
	}
	return fmt.Sprintf("quiz incomplete: %d of %d questions unanswered (missing %s)", len(e.Missing), QuestionCount, strings.Join(ids, ", "))
}

// InvalidAnswerError reports an unknown question id or an answer outside A/B/C.
type InvalidAnswerError struct {
	QuestionID int
	Value      string
}

func (e *InvalidAnswerError) Error() string {
	if e.QuestionID < 1 || e.QuestionID > QuestionCount {
		return fmt.Sprintf("unknown question id %d (expected 1..%d)", e.QuestionID, QuestionCount)
	}
	return fmt.Sprintf("invalid answer %q for question %d (expected A, B or C)", e.Value, e.QuestionID)
}

// AmbiguousClassificationError signals a defect in the tally logic: the counts
// produced neither a plurality nor a recognised tie.
type AmbiguousClassificationError struct {
	Tally Tally
}

func (e *AmbiguousClassificationError) Error() string {
	return fmt.Sprintf("body type classification ambiguous for tally A=%d B=%d C=%d", e.Tally.A, e.Tally.B, e.Tally.C)
}

// IsValidationError reports whether err is a user-correctable input failure.
func IsValidationError(err error) bool {
	var (
		portionErr  *InvalidPortionError
		nutrientErr *InvalidNutrientValueError
		mealErr     *InvalidMealTypeError
		answerErr   *InvalidAnswerError
	)
	return errors.As(err, &portionErr) ||
		errors.As(err, &nutrientErr) ||
		errors.As(err, &mealErr) ||
		errors.As(err, &answerErr)
}
