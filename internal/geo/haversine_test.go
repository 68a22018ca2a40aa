package geo

import (
	"math"
	"testing"

	"heritage_pulse/internal/domain"
)

func TestHaversine(t *testing.T) {
	delhi := domain.Coordinates{Lat: 28.6139, Lng: 77.2090}
	agra := domain.Coordinates{Lat: 27.1767, Lng: 78.0081}

	d := Haversine(delhi, agra)
	// Straight-line Delhi to Agra is roughly 180 km.
	if math.Abs(d-180) > 5 {
		t.Fatalf("Delhi-Agra distance %.1f km, expected ~180", d)
	}

	if got := Haversine(delhi, delhi); got != 0 {
		t.Fatalf("zero distance expected, got %g", got)
	}

	// Symmetric.
	if a, b := Haversine(delhi, agra), Haversine(agra, delhi); math.Abs(a-b) > 1e-9 {
		t.Fatalf("not symmetric: %g vs %g", a, b)
	}
}
