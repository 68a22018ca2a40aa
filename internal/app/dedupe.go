package app

import (
	"math"

	"heritage_pulse/internal/domain"
)

// Dedupe collapses near-duplicate sites from the concatenated source lists.
// Candidates are scanned in arrival order against the already-accepted
// uniques: the first record seen for a place wins, and its metadata
// (category, images, source tag) is what survives. Order dependence is a
// documented property, pinned by tests; replacing this with a symmetric
// clustering changes which record wins.
func Dedupe(sites []domain.Site) []domain.Site {
	unique := make([]domain.Site, 0, len(sites))
	for _, s := range sites {
		dup := false
		for _, u := range unique {
			if sameSpot(u.Coordinates, s.Coordinates) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, s)
		}
	}
	return unique
}

func sameSpot(a, b domain.Coordinates) bool {
	return math.Abs(a.Lat-b.Lat) < domain.CoordTolerance &&
		math.Abs(a.Lng-b.Lng) < domain.CoordTolerance
}
