// Package geo holds the small spatial helpers shared by the deduplicator,
// the optimizer and the routing fallback.
package geo

import (
	"math"

	"heritage_pulse/internal/domain"
)

const earthRadiusKm = 6371

// Haversine returns the great-circle distance between two points in km.
// Used as a lightweight substitute for road distance.
func Haversine(a, b domain.Coordinates) float64 {
	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
