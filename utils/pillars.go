package utils

import "sort"

// Bracket returns the indices of the two pillars from a sorted pillar slice that bracket t.
//
// It assumes pillars is sorted in strictly ascending order and has at least two elements.
// If t is outside the provided range, it returns the nearest boundary pair.
func Bracket(t float64, pillars []float64) (int, int) {
	if len(pillars) < 2 {
		panic("Bracket: need at least 2 pillars")
	}

	// First index with pillars[i] >= t.
	i := sort.SearchFloat64s(pillars, t)

	if i <= 0 {
		return 0, 1
	}
	if i >= len(pillars) {
		return len(pillars) - 2, len(pillars) - 1
	}
	return i - 1, i
}
