package domain

// ScheduledStop is one visit within a day. ArrivalTime is a HH:MM clock
// string. Forced marks a stop committed despite not fitting the day window,
// the optimizer's termination guard.
type ScheduledStop struct {
	Site              Site    `json:"site"`
	ArrivalTime       string  `json:"arrival_time"`
	DurationMinutes   int     `json:"duration_minutes"`
	TravelTimeMinutes int     `json:"travel_time_minutes"`
	DistanceKm        float64 `json:"distance_km"`
	Forced            bool    `json:"forced,omitempty"`
}

// DayStats is a pure reduction over a day's stops.
type DayStats struct {
	TotalDistanceKm    float64 `json:"total_distance_km"`
	TotalTravelMinutes int     `json:"total_travel_time_min"`
	TotalVisitMinutes  int     `json:"total_visit_time_min"`
	SiteCount          int     `json:"sites_count"`
}

type ScheduleDay struct {
	Day   int             `json:"day"`
	Theme string          `json:"theme,omitempty"`
	Stops []ScheduledStop `json:"stops"`
	Stats DayStats        `json:"stats"`
}

// Preferences are the user's trip constraints. StartTime/EndTime bound the
// day window as HH:MM clock strings.
type Preferences struct {
	Categories []string `json:"categories,omitempty"`
	Pace       string   `json:"pace,omitempty"`
	StartTime  string   `json:"start_time,omitempty"`
	EndTime    string   `json:"end_time,omitempty"`
}
