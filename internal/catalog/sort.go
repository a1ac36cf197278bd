package catalog

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// SortKey selects a client-side ordering of search results.
type SortKey string

const (
	SortRelevance SortKey = "relevance" // upstream order
	SortRating    SortKey = "rating"    // rating, highest first
	SortYear      SortKey = "year"      // release year, newest first
)

// ParseSortKey validates s. The empty string means relevance.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortRelevance:
		return SortRelevance, nil
	case SortRating:
		return SortRating, nil
	case SortYear:
		return SortYear, nil
	default:
		return "", fmt.Errorf("%w: %q (want relevance, rating or year)", ErrInvalidSort, s)
	}
}

// Sort returns a reordered copy of movies. The input slice is never modified.
// Ties keep their upstream order.
func Sort(movies []Summary, key SortKey) []Summary {
	out := slices.Clone(movies)
	switch key {
	case SortRating:
		slices.SortStableFunc(out, func(a, b Summary) int {
			return compareDesc(a.Rating, b.Rating)
		})
	case SortYear:
		slices.SortStableFunc(out, func(a, b Summary) int {
			return compareDesc(yearValue(a.Year), yearValue(b.Year))
		})
	}
	return out
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// yearValue parses a year for ordering; non-numeric years such as "N/A" sort last.
func yearValue(year string) float64 {
	y, err := strconv.Atoi(year)
	if err != nil {
		return math.Inf(-1)
	}
	return float64(y)
}
