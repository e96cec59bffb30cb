package sugarpoints

import (
	"math"
	"math/bits"
)

// DefaultTarget is the daily SugarPoints ceiling used when no target is known.
const DefaultTarget = 120

// Severity is the feedback band category.
type Severity string

const (
	SeverityExcellent Severity = "excellent"
	SeverityGood      Severity = "good"
	// SeverityModerate is part of the wire vocabulary but not produced by the
	// canonical band table.
	SeverityModerate Severity = "moderate"
	SeverityWarning  Severity = "warning"
	SeverityDanger   Severity = "danger"
)

// Color is the display color category for the severity.
func (s Severity) Color() string {
	switch s {
	case SeverityExcellent:
		return "green"
	case SeverityGood:
		return "teal"
	case SeverityModerate:
		return "amber"
	case SeverityWarning:
		return "orange"
	case SeverityDanger:
		return "red"
	default:
		return ""
	}
}

// Band is one row of the classification table. A total falls in the first
// band whose upper bound (Num/Den of the target, inclusive) it does not exceed.
type Band struct {
	Num, Den int
	Severity Severity
	Label    string
}

// Bands is the canonical classification table, ordered by upper bound. The
// first row only matches a zero total; the last row is unbounded.
var Bands = []Band{
	{Num: 0, Den: 1, Severity: SeverityExcellent, Label: "Perfect start"},
	{Num: 1, Den: 4, Severity: SeverityExcellent, Label: "Great control"},
	{Num: 1, Den: 2, Severity: SeverityGood, Label: "Doing well"},
	{Num: 1, Den: 1, Severity: SeverityWarning, Label: "Watch your intake"},
	{Num: 0, Den: 0, Severity: SeverityDanger, Label: "High intake today"},
}

// Status is the display-ready classification of a day's total.
type Status struct {
	Label           string   `json:"label"`
	Severity        Severity `json:"severity"`
	Color           string   `json:"color"`
	Total           int      `json:"total"`
	Target          int      `json:"target"`
	Remaining       int      `json:"remaining"`
	PercentOfTarget int      `json:"percentOfTarget"`
}

// Classify maps a cumulative total onto a band of the table. A non-positive
// target falls back to DefaultTarget; negative totals classify as zero.
func Classify(total, target int) Status {
	if target <= 0 {
		target = DefaultTarget
	}
	if total < 0 {
		total = 0
	}
	band := Bands[len(Bands)-1]
	for _, b := range Bands[:len(Bands)-1] {
		if withinFraction(total, target, b.Num, b.Den) {
			band = b
			break
		}
	}
	remaining := target - total
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Label:           band.Label,
		Severity:        band.Severity,
		Color:           band.Severity.Color(),
		Total:           total,
		Target:          target,
		Remaining:       remaining,
		PercentOfTarget: percentOf(total, target),
	}
}

// withinFraction reports total/target <= num/den for non-negative operands.
// The cross products are compared as 128-bit values so they cannot overflow.
func withinFraction(total, target, num, den int) bool {
	lhsHi, lhsLo := bits.Mul64(uint64(total), uint64(den))
	rhsHi, rhsLo := bits.Mul64(uint64(target), uint64(num))
	if lhsHi != rhsHi {
		return lhsHi < rhsHi
	}
	return lhsLo <= rhsLo
}

const maxPercent = math.MaxInt32

func percentOf(total, target int) int {
	pct := float64(total) * 100 / float64(target)
	if pct >= maxPercent {
		return maxPercent
	}
	return roundHalfAway(pct)
}
