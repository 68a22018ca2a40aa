package app

import (
	"fmt"
	"math"

	"heritage_pulse/internal/domain"
	"heritage_pulse/internal/geo"
)

// Travel-time model: constant city speed plus a fixed per-leg buffer.
const (
	avgSpeedKmH     = 30.0
	travelBufferMin = 5
)

// DayWindow bounds a schedule day, minutes from midnight.
type DayWindow struct {
	StartMinutes int
	EndMinutes   int
}

// ParseWindow builds a window from HH:MM bounds, defaulting to 09:00-18:00.
func ParseWindow(start, end string) (DayWindow, error) {
	if start == "" {
		start = "09:00"
	}
	if end == "" {
		end = "18:00"
	}
	s, err := parseClock(start)
	if err != nil {
		return DayWindow{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return DayWindow{}, err
	}
	if e <= s {
		return DayWindow{}, fmt.Errorf("day window end %s is not after start %s", end, start)
	}
	return DayWindow{StartMinutes: s, EndMinutes: e}, nil
}

func parseClock(t string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(t, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("bad clock value %q: %w", t, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad clock value %q", t)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// VisitDuration returns the estimated visit length in minutes for a
// category.
func VisitDuration(c domain.Category) int {
	switch c {
	case domain.CategoryUNESCO, domain.CategoryPalace, domain.CategoryFort, domain.CategoryMuseum:
		return 90
	case domain.CategoryTemple:
		return 60
	default:
		return 60
	}
}

// TravelMinutes converts a distance to travel time under the constant-speed
// model.
func TravelMinutes(distanceKm float64) int {
	return int(math.Ceil(distanceKm/avgSpeedKmH*60)) + travelBufferMin
}

// OptimizeRoute is the deterministic greedy nearest-neighbor multi-day
// scheduler. Each day starts at the anchor (hotel/city center), repeatedly
// commits the nearest unvisited site that still fits the window, and closes
// when nothing fits. A fresh day that fits nothing commits its single
// nearest site anyway, flagged Forced, which guarantees termination; such a
// day may exceed the window and its stats report the overrun as-is.
//
// Every input site ends up in exactly one day exactly once.
func OptimizeRoute(sites []domain.Site, start domain.Coordinates, window DayWindow) []domain.ScheduleDay {
	unvisited := make([]domain.Site, len(sites))
	copy(unvisited, sites)

	var schedule []domain.ScheduleDay
	day := 1

	for len(unvisited) > 0 {
		stops := []domain.ScheduledStop{}
		clock := window.StartMinutes
		anchor := start

		for len(unvisited) > 0 {
			idx, dist := nearest(unvisited, anchor)
			travel := TravelMinutes(dist)
			visit := VisitDuration(unvisited[idx].Category)

			if clock+travel+visit > window.EndMinutes {
				break
			}

			stops = append(stops, domain.ScheduledStop{
				Site:              unvisited[idx],
				ArrivalTime:       formatClock(clock + travel),
				DurationMinutes:   visit,
				TravelTimeMinutes: travel,
				DistanceKm:        round2(dist),
			})
			clock += travel + visit
			anchor = unvisited[idx].Coordinates
			unvisited = append(unvisited[:idx], unvisited[idx+1:]...)
		}

		if len(stops) == 0 {
			// Even the nearest site doesn't fit a fresh day. Commit it
			// anyway so the loop always makes progress.
			idx, dist := nearest(unvisited, anchor)
			travel := TravelMinutes(dist)
			stops = append(stops, domain.ScheduledStop{
				Site:              unvisited[idx],
				ArrivalTime:       formatClock(window.StartMinutes + travel),
				DurationMinutes:   VisitDuration(unvisited[idx].Category),
				TravelTimeMinutes: travel,
				DistanceKm:        round2(dist),
				Forced:            true,
			})
			unvisited = append(unvisited[:idx], unvisited[idx+1:]...)
		}

		schedule = append(schedule, domain.ScheduleDay{
			Day:   day,
			Stops: stops,
			Stats: DayStats(stops),
		})
		day++
	}

	return schedule
}

// nearest returns the index and distance of the unvisited site closest to
// the anchor. Ties break to the first candidate in list order, which keeps
// the scheduler deterministic.
func nearest(unvisited []domain.Site, anchor domain.Coordinates) (int, float64) {
	best := 0
	bestDist := math.Inf(1)
	for i, s := range unvisited {
		if d := geo.Haversine(anchor, s.Coordinates); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// DayStats sums a day's stops. Pure reduction, no side effects.
func DayStats(stops []domain.ScheduledStop) domain.DayStats {
	var st domain.DayStats
	for _, s := range stops {
		st.TotalDistanceKm += s.DistanceKm
		st.TotalTravelMinutes += s.TravelTimeMinutes
		st.TotalVisitMinutes += s.DurationMinutes
	}
	st.TotalDistanceKm = round2(st.TotalDistanceKm)
	st.SiteCount = len(stops)
	return st
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
