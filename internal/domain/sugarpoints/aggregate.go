package sugarpoints

// DailyAggregate is one calendar day of entries for one user.
type DailyAggregate struct {
	Entries               []FoodEntry `json:"entries"`
	TotalSugarPoints      int         `json:"totalSugarPoints"`
	TotalSugarPointBlocks int         `json:"totalSugarPointBlocks"`
}

// AggregateDay sums points and blocks entry by entry. Blocks are never
// recomputed from the total. The input order is preserved.
func AggregateDay(entries []FoodEntry) DailyAggregate {
	agg := DailyAggregate{Entries: make([]FoodEntry, len(entries))}
	copy(agg.Entries, entries)
	for _, e := range entries {
		agg.TotalSugarPoints += e.SugarPoints
		agg.TotalSugarPointBlocks += e.SugarPointBlocks
	}
	return agg
}

// ByMeal groups the day's points per meal type.
func (d DailyAggregate) ByMeal() map[MealType]Score {
	out := make(map[MealType]Score, 4)
	for _, e := range d.Entries {
		s := out[e.MealType]
		s.SugarPoints += e.SugarPoints
		s.SugarPointBlocks += e.SugarPointBlocks
		out[e.MealType] = s
	}
	return out
}
