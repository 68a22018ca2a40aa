package app

import (
	"testing"

	"heritage_pulse/internal/domain"
)

func site(id, name string, lat, lng float64, src domain.Source) domain.Site {
	return domain.Site{
		ID:          id,
		Name:        name,
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		Source:      src,
	}
}

func TestDedupe_KeepsFirstSeen(t *testing.T) {
	kg := site("Q1", "Red Fort", 28.6562, 77.2410, domain.SourceKnowledgeGraph)
	osm := site("osm_1", "Red Fort (OSM)", 28.6561, 77.2411, domain.SourcePointsOfInterest)

	got := Dedupe([]domain.Site{kg, osm})
	if len(got) != 1 {
		t.Fatalf("expected 1 site, got %d", len(got))
	}
	if got[0].ID != "Q1" {
		t.Fatalf("expected first-seen record to win, got %q", got[0].ID)
	}

	// Reversed input keeps the other record: first seen wins, not best source.
	got = Dedupe([]domain.Site{osm, kg})
	if len(got) != 1 || got[0].ID != "osm_1" {
		t.Fatalf("expected osm_1 to win in reversed order, got %+v", got)
	}
}

func TestDedupe_ToleranceBoundary(t *testing.T) {
	a := site("a", "A", 28.0000, 77.0000, domain.SourceKnowledgeGraph)
	// One axis past the tolerance is not "same spot".
	b := site("b", "B", 28.0020, 77.0000, domain.SourcePointsOfInterest)
	// Both axes well inside the tolerance is.
	c := site("c", "C", 28.0004, 77.0004, domain.SourcePointsOfInterest)

	got := Dedupe([]domain.Site{a, b, c})
	if len(got) != 2 {
		t.Fatalf("expected 2 sites, got %d: %+v", len(got), got)
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected survivors: %+v", got)
	}
}

func TestDedupe_Empty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}
