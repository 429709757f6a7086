package usecases

import (
	"cmp"
	"slices"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// DefaultResultLimit is the number of parkings shown per search.
const DefaultResultLimit = 5

// Rank returns the limit nearest records, nearest first. Records with equal
// distance keep their relative order. The input slice is left untouched.
func Rank(records []domain.ParkingRecord, limit int) []domain.ParkingRecord {
	if limit <= 0 {
		limit = DefaultResultLimit
	}

	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b domain.ParkingRecord) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
