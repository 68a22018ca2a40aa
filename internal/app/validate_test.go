package app

import (
	"testing"

	"heritage_pulse/internal/domain"
)

func TestValidateProposal_DropsHallucinatedStops(t *testing.T) {
	registry := []domain.Site{
		site("Q1", "Red Fort", 28.6562, 77.2410, domain.SourceKnowledgeGraph),
		site("Q2", "India Gate", 28.6129, 77.2295, domain.SourceKnowledgeGraph),
	}

	p := domain.PlannerProposal{
		Summary: "Two days in Delhi",
		Days: []domain.ProposalDay{
			{
				Day:   1,
				Theme: "Mughal Delhi",
				Activities: []domain.ProposalActivity{
					{Time: "09:30", Activity: "Explore the fort", Location: "Red Fort", SiteID: "Q1"},
					{Time: "13:00", Activity: "Invented stop", Location: "Crystal Palace of Delhi"},
					{Time: "15:00", Activity: "War memorial walk", Location: "India Gate"},
				},
			},
		},
	}

	schedule := ValidateProposal(p, registry)
	if len(schedule) != 1 {
		t.Fatalf("expected 1 day, got %d", len(schedule))
	}
	day := schedule[0]
	if len(day.Stops) != 2 {
		t.Fatalf("expected hallucinated stop dropped, got %d stops", len(day.Stops))
	}
	if day.Stops[0].Site.ID != "Q1" || day.Stops[1].Site.ID != "Q2" {
		t.Fatalf("unexpected stops: %+v", day.Stops)
	}
	if day.Theme != "Mughal Delhi" {
		t.Fatalf("theme lost: %q", day.Theme)
	}
	// Counts are recomputed from the filtered stops.
	if day.Stats.SiteCount != 2 {
		t.Fatalf("stats not recomputed: %+v", day.Stats)
	}
}

func TestValidateProposal_MatchesByIDBeforeName(t *testing.T) {
	registry := []domain.Site{
		site("Q1", "Gate", 28.0, 77.0, domain.SourceKnowledgeGraph),
		site("Q2", "Gate", 28.5, 77.5, domain.SourceKnowledgeGraph),
	}

	p := domain.PlannerProposal{
		Days: []domain.ProposalDay{{
			Day: 1,
			Activities: []domain.ProposalActivity{
				{Time: "10:00", Location: "Gate", SiteID: "Q2"},
				{Time: "12:00", Location: "Gate"},
			},
		}},
	}

	schedule := ValidateProposal(p, registry)
	stops := schedule[0].Stops
	if len(stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(stops))
	}
	if stops[0].Site.ID != "Q2" {
		t.Fatalf("site id match should win over name, got %q", stops[0].Site.ID)
	}
	// Name-only match resolves to the first registry entry with that name.
	if stops[1].Site.ID != "Q1" {
		t.Fatalf("expected first-by-name match, got %q", stops[1].Site.ID)
	}
}

func TestValidateProposal_NumbersUnnumberedDays(t *testing.T) {
	registry := []domain.Site{site("Q1", "Fort", 28.0, 77.0, domain.SourceKnowledgeGraph)}
	p := domain.PlannerProposal{
		Days: []domain.ProposalDay{
			{Activities: []domain.ProposalActivity{{Time: "09:00", SiteID: "Q1"}}},
			{Activities: nil},
		},
	}

	schedule := ValidateProposal(p, registry)
	if schedule[0].Day != 1 || schedule[1].Day != 2 {
		t.Fatalf("unexpected day numbering: %d, %d", schedule[0].Day, schedule[1].Day)
	}
}

func TestTotalSites(t *testing.T) {
	schedule := []domain.ScheduleDay{
		{Stops: make([]domain.ScheduledStop, 3)},
		{Stops: make([]domain.ScheduledStop, 2)},
		{},
	}
	if got := TotalSites(schedule); got != 5 {
		t.Fatalf("TotalSites = %d, want 5", got)
	}
}
