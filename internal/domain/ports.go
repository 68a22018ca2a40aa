package domain

import (
	"context"
	"time"
)

// Geocoder resolves a free-text place name. A nil result with a nil error
// means no match; the orchestrator maps that to ErrLocationNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*GeocodedLocation, error)
}

// SiteSearcher queries the knowledge graph for heritage sites around a
// point. Exhausted retries degrade to an empty list, never an error.
type SiteSearcher interface {
	Search(ctx context.Context, center Coordinates, radiusKm float64, limit int) ([]Site, error)
}

// POISearcher queries the points-of-interest source for historic/tourism
// elements near a point. Same degradation contract as SiteSearcher.
type POISearcher interface {
	Nearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]Site, error)
}

// NarrativeSource looks up a narrative summary by article title. It never
// fails the caller: on any upstream problem it returns a Found=false stub.
type NarrativeSource interface {
	Summarize(ctx context.Context, title, lang string) (NarrativeSummary, error)
}

// Router estimates road distance/duration over an ordered coordinate list.
// On upstream failure it returns a haversine estimate tagged
// RouteSourceFallback with the same shape as a routed result.
type Router interface {
	Route(ctx context.Context, coords []Coordinates) (RouteEstimate, error)
}

// Planner is the external reasoning model.
type Planner interface {
	// PlanItinerary asks the model for a day-by-day proposal over the
	// candidate registry in pc. The raw proposal is unvalidated; callers
	// must cross-check it against the registry.
	PlanItinerary(ctx context.Context, pc PlanContext) (PlannerProposal, error)
	// Chat runs a free-form conversation turn with optional grounding context.
	Chat(ctx context.Context, messages []ChatMessage, context string) (string, error)
}

type ItineraryRepository interface {
	SaveItinerary(ctx context.Context, it Itinerary) error
	GetItinerary(ctx context.Context, id string) (Itinerary, error)
}

// SessionStore holds conversation history by conversation id with TTL-based
// eviction. Injected into request handling; never a package-level global.
type SessionStore interface {
	Get(ctx context.Context, conversationID string) ([]ChatMessage, bool, error)
	Put(ctx context.Context, conversationID string, messages []ChatMessage, ttl time.Duration) error
	Evict(ctx context.Context, conversationID string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
