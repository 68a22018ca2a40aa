package app

import (
	"heritage_pulse/internal/domain"
)

// ValidateProposal cross-checks a reasoning model's proposal against the
// candidate registry. Activities are matched by exact site id first, then
// exact name; anything unmatched is dropped silently as hallucinated.
// Matched activities get the full enriched Site attached, and all counts in
// the returned schedule are recomputed from the filtered data, never
// trusted from the raw proposal.
func ValidateProposal(p domain.PlannerProposal, registry []domain.Site) []domain.ScheduleDay {
	byID := make(map[string]domain.Site, len(registry))
	byName := make(map[string]domain.Site, len(registry))
	for _, s := range registry {
		byID[s.ID] = s
		if _, ok := byName[s.Name]; !ok {
			byName[s.Name] = s
		}
	}

	schedule := make([]domain.ScheduleDay, 0, len(p.Days))
	for i, day := range p.Days {
		stops := make([]domain.ScheduledStop, 0, len(day.Activities))
		for _, act := range day.Activities {
			site, ok := matchActivity(act, byID, byName)
			if !ok {
				continue
			}
			stops = append(stops, domain.ScheduledStop{
				Site:            site,
				ArrivalTime:     act.Time,
				DurationMinutes: VisitDuration(site.Category),
			})
		}

		dayIdx := day.Day
		if dayIdx == 0 {
			dayIdx = i + 1
		}
		schedule = append(schedule, domain.ScheduleDay{
			Day:   dayIdx,
			Theme: day.Theme,
			Stops: stops,
			Stats: DayStats(stops),
		})
	}
	return schedule
}

func matchActivity(act domain.ProposalActivity, byID, byName map[string]domain.Site) (domain.Site, bool) {
	if act.SiteID != "" {
		if s, ok := byID[act.SiteID]; ok {
			return s, true
		}
	}
	if s, ok := byName[act.Location]; ok {
		return s, true
	}
	return domain.Site{}, false
}

// TotalSites counts stops across a validated schedule.
func TotalSites(schedule []domain.ScheduleDay) int {
	n := 0
	for _, d := range schedule {
		n += len(d.Stops)
	}
	return n
}
