package domain

// Category is the normalized site classification used across all sources.
type Category string

const (
	CategoryUNESCO   Category = "UNESCO"
	CategoryTemple   Category = "Temple"
	CategoryFort     Category = "Fort"
	CategoryMuseum   Category = "Museum"
	CategoryPalace   Category = "Palace"
	CategoryMonument Category = "Monument"
	CategoryRuins    Category = "Ruins"
	CategoryMemorial Category = "Memorial"
	CategoryOther    Category = "Other"
)

// Source identifies which upstream produced a Site record.
type Source string

const (
	SourceKnowledgeGraph   Source = "knowledge-graph"
	SourcePointsOfInterest Source = "points-of-interest"
	SourceNarrative        Source = "narrative"
	SourceManual           Source = "manual"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CoordTolerance is the dedup tolerance in degrees (~111 m at the equator).
// Two sites whose lat and lng both differ by less than this are treated as
// the same physical place.
const CoordTolerance = 0.001

// Site is the canonical record every source adapter normalizes into.
// IDs are stable within a request only; there is no cross-request identity.
type Site struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Category     Category    `json:"category"`
	Coordinates  Coordinates `json:"coordinates"`
	Source       Source      `json:"source"`
	Summary      string      `json:"summary,omitempty"`
	Verified     bool        `json:"verified"`
	Images       []string    `json:"images,omitempty"`
	WikipediaURL string      `json:"wikipedia_url,omitempty"`
}

// GeocodedLocation is a resolved place name.
type GeocodedLocation struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

// NarrativeSummary is the result of a narrative lookup. Found=false with a
// placeholder Summary is the degraded shape; callers never see an error.
type NarrativeSummary struct {
	Found    bool   `json:"found"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	URL      string `json:"url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// RouteEstimate is a road-routing result. Source is "routed" for a real
// upstream answer and "fallback" for the straight-line estimate; both carry
// the same field shape.
type RouteEstimate struct {
	DistanceKm    float64 `json:"distance_km"`
	DurationHours float64 `json:"duration_hours"`
	Source        string  `json:"source"`
}

const (
	RouteSourceRouted   = "routed"
	RouteSourceFallback = "fallback"
)
