package domain

// Itinerary is the terminal output of a generation request. Once returned it
// is never mutated.
type Itinerary struct {
	ID          string        `json:"itinerary_id"`
	Location    string        `json:"location"`
	Days        int           `json:"days"`
	Schedule    []ScheduleDay `json:"schedule"`
	Summary     string        `json:"summary"`
	TotalSites  int           `json:"total_sites"`
	Preferences Preferences   `json:"preferences"`
	Planner     string        `json:"planner"`
}

const (
	PlannerReasoning = "reasoning-model"
	PlannerGreedy    = "greedy"
	PlannerFallback  = "fallback"
)

// PlanContext is the structured payload handed to the reasoning model.
// Sites is the full candidate registry; the model must not invent others.
type PlanContext struct {
	Location    GeocodedLocation `json:"location"`
	Days        int              `json:"duration_days"`
	Preferences Preferences      `json:"preferences"`
	DailyHours  int              `json:"daily_hours"`
	Sites       []Site           `json:"heritage_sites"`
}

// PlannerProposal is the schema the reasoning model's JSON must match.
// Activities reference candidate sites by id or by exact name; anything else
// is treated as hallucinated and dropped by the validator.
type PlannerProposal struct {
	Summary string        `json:"summary"`
	Days    []ProposalDay `json:"days"`
}

type ProposalDay struct {
	Day        int                `json:"day"`
	Theme      string             `json:"theme"`
	Activities []ProposalActivity `json:"activities"`
}

type ProposalActivity struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Location string `json:"location"`
	Notes    string `json:"notes,omitempty"`
	SiteID   string `json:"site_id,omitempty"`
}
