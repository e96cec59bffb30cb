package sugarpoints

import (
	"sort"
	"strings"
)

// Answer is a quiz option letter.
type Answer string

const (
	AnswerA Answer = "A"
	AnswerB Answer = "B"
	AnswerC Answer = "C"
)

// ParseAnswer accepts a, b or c in either case.
func ParseAnswer(questionID int, raw string) (Answer, error) {
	if questionID < 1 || questionID > QuestionCount {
		return "", &InvalidAnswerError{QuestionID: questionID, Value: raw}
	}
	switch a := Answer(strings.ToUpper(strings.TrimSpace(raw))); a {
	case AnswerA, AnswerB, AnswerC:
		return a, nil
	default:
		return "", &InvalidAnswerError{QuestionID: questionID, Value: raw}
	}
}

// BodyType is the metabolic profile derived from the quiz.
type BodyType string

const (
	Ectomorph BodyType = "Ectomorph"
	Mesomorph BodyType = "Mesomorph"
	Endomorph BodyType = "Endomorph"
	Hybrid    BodyType = "Hybrid"
)

// Range is an inclusive recommended daily SugarPoints range.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Midpoint rounds the centre of the range half away from zero.
func (r Range) Midpoint() int {
	return roundHalfAway(float64(r.Low+r.High) / 2)
}

var bodyTypeRanges = map[BodyType]Range{
	Ectomorph: {Low: 100, High: 125},
	Mesomorph: {Low: 75, High: 100},
	Endomorph: {Low: 50, High: 75},
	Hybrid:    {Low: 75, High: 125},
}

// RangeFor returns the recommended range of a body type.
func RangeFor(bt BodyType) (Range, bool) {
	r, ok := bodyTypeRanges[bt]
	return r, ok
}

// Tally counts answers per letter.
type Tally struct {
	A int `json:"a"`
	B int `json:"b"`
	C int `json:"c"`
}

// BodyTypeResult is the outcome of a submitted quiz.
type BodyTypeResult struct {
	BodyType          BodyType `json:"bodyType"`
	SugarPointsRange  Range    `json:"sugarPointsRange"`
	RecommendedTarget int      `json:"recommendedTarget"`
	Tally             Tally    `json:"tally"`
}

// Submit scores a complete set of 15 answers. Each answer is one vote for its
// letter; a strict plurality picks the body type and any tie at the top is Hybrid.
func Submit(responses map[int]Answer) (BodyTypeResult, error) {
	var missing []int
	for id := 1; id <= QuestionCount; id++ {
		if _, ok := responses[id]; !ok {
			missing = append(missing, id)
		}
	}
	ids := make([]int, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var tally Tally
	for _, id := range ids {
		a, err := ParseAnswer(id, string(responses[id]))
		if err != nil {
			return BodyTypeResult{}, err
		}
		switch a {
		case AnswerA:
			tally.A++
		case AnswerB:
			tally.B++
		case AnswerC:
			tally.C++
		}
	}
	if len(missing) > 0 {
		return BodyTypeResult{}, &IncompleteQuizError{Missing: missing}
	}

	bt, err := classifyTally(tally)
	if err != nil {
		return BodyTypeResult{}, err
	}
	r := bodyTypeRanges[bt]
	return BodyTypeResult{
		BodyType:          bt,
		SugarPointsRange:  r,
		RecommendedTarget: r.Midpoint(),
		Tally:             tally,
	}, nil
}

func classifyTally(t Tally) (BodyType, error) {
	if t.A+t.B+t.C != QuestionCount || t.A < 0 || t.B < 0 || t.C < 0 {
		return "", &AmbiguousClassificationError{Tally: t}
	}
	switch {
	case t.A > t.B && t.A > t.C:
		return Ectomorph, nil
	case t.B > t.A && t.B > t.C:
		return Mesomorph, nil
	case t.C > t.A && t.C > t.B:
		return Endomorph, nil
	}
	top := max(t.A, t.B, t.C)
	leaders := 0
	for _, n := range []int{t.A, t.B, t.C} {
		if n == top {
			leaders++
		}
	}
	if leaders >= 2 {
		return Hybrid, nil
	}
	return "", &AmbiguousClassificationError{Tally: t}
}
