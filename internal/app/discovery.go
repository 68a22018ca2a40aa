package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"heritage_pulse/internal/domain"
)

const (
	discoverEnrichCap = 20
	maxCandidates     = 50
	maxEnriched       = 40
)

// Service orchestrates the discovery pipeline:
// geocode → parallel fetch → dedupe → enrich → (optimize | plan+validate) →
// best-effort persist → respond.
type Service struct {
	geocoder domain.Geocoder
	kg       domain.SiteSearcher
	poi      domain.POISearcher
	enricher *Enricher
	router   domain.Router
	planner  domain.Planner // nil: deterministic optimizer only
	repo     domain.ItineraryRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewService(
	geocoder domain.Geocoder,
	kg domain.SiteSearcher,
	poi domain.POISearcher,
	enricher *Enricher,
	router domain.Router,
	planner domain.Planner,
	repo domain.ItineraryRepository,
	cache domain.Cache,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		geocoder: geocoder,
		kg:       kg,
		poi:      poi,
		enricher: enricher,
		router:   router,
		planner:  planner,
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

type DiscoverRequest struct {
	Location   string   `json:"location"`
	RadiusKm   float64  `json:"radius_km"`
	Categories []string `json:"categories,omitempty"`
}

type DiscoverResponse struct {
	Location struct {
		Name        string             `json:"name"`
		Coordinates domain.Coordinates `json:"coordinates"`
	} `json:"location"`
	Sites    []domain.Site `json:"sites"`
	Count    int           `json:"count"`
	RadiusKm float64       `json:"radius_km"`
}

type ItineraryRequest struct {
	Location    string             `json:"location"`
	Days        int                `json:"days"`
	RadiusKm    float64            `json:"radius_km"`
	Preferences domain.Preferences `json:"preferences"`
}

// Discover runs the pipeline through enrichment and returns the candidate
// sites near a location.
func (s *Service) Discover(ctx context.Context, req DiscoverRequest) (DiscoverResponse, error) {
	key := fmt.Sprintf("discover:%s:%g", req.Location, req.RadiusKm)
	var cached DiscoverResponse
	if s.cache != nil && len(req.Categories) == 0 {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	loc, err := s.geocoder.Geocode(ctx, req.Location)
	if err != nil {
		return DiscoverResponse{}, err
	}
	if loc == nil {
		return DiscoverResponse{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, req.Location)
	}

	candidates := s.fetchCandidates(ctx, *loc, req.RadiusKm, maxCandidates)
	candidates = filterCategories(candidates, req.Categories)

	enriched := s.enricher.Enrich(ctx, SelectForEnrichment(candidates, discoverEnrichCap))

	var resp DiscoverResponse
	resp.Location.Name = loc.DisplayName
	resp.Location.Coordinates = domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}
	resp.Sites = enriched
	resp.Count = len(enriched)
	resp.RadiusKm = req.RadiusKm

	if s.cache != nil && len(req.Categories) == 0 {
		_ = s.cache.Set(ctx, key, resp, int(s.cacheTTL.Seconds()))
	}
	return resp, nil
}

// GenerateItinerary runs the full pipeline. With a planner configured it
// delegates schedule authorship to the reasoning model and validates the
// output; if the model fails or is absent the deterministic greedy
// optimizer produces the schedule instead. Persistence is best-effort: a
// failed save is logged and never fails the response.
func (s *Service) GenerateItinerary(ctx context.Context, req ItineraryRequest) (domain.Itinerary, error) {
	window, err := ParseWindow(req.Preferences.StartTime, req.Preferences.EndTime)
	if err != nil {
		return domain.Itinerary{}, err
	}

	loc, err := s.geocoder.Geocode(ctx, req.Location)
	if err != nil {
		return domain.Itinerary{}, err
	}
	if loc == nil {
		return domain.Itinerary{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, req.Location)
	}

	candidateLimit := req.Days * 10
	if candidateLimit > maxCandidates {
		candidateLimit = maxCandidates
	}
	enrichCap := req.Days * 8
	if enrichCap > maxEnriched {
		enrichCap = maxEnriched
	}

	candidates := s.fetchCandidates(ctx, *loc, req.RadiusKm, candidateLimit)
	candidates = filterCategories(candidates, req.Preferences.Categories)
	enriched := s.enricher.Enrich(ctx, SelectForEnrichment(candidates, enrichCap))

	start := domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}
	schedule, summary, planner := s.buildSchedule(ctx, req, *loc, enriched, window, start)

	it := domain.Itinerary{
		ID:          uuid.NewString(),
		Location:    loc.DisplayName,
		Days:        req.Days,
		Schedule:    schedule,
		Summary:     summary,
		TotalSites:  TotalSites(schedule),
		Preferences: req.Preferences,
		Planner:     planner,
	}

	if s.repo != nil {
		if err := s.repo.SaveItinerary(ctx, it); err != nil {
			log.Error().Err(err).Str("itinerary_id", it.ID).Msg("itinerary persist failed")
		}
	}
	return it, nil
}

func (s *Service) buildSchedule(
	ctx context.Context,
	req ItineraryRequest,
	loc domain.GeocodedLocation,
	enriched []domain.Site,
	window DayWindow,
	start domain.Coordinates,
) ([]domain.ScheduleDay, string, string) {
	fallbackSummary := fmt.Sprintf("A %d-day trip to %s", req.Days, req.Location)

	if s.planner == nil {
		return OptimizeRoute(enriched, start, window), fallbackSummary, domain.PlannerGreedy
	}

	proposal, err := s.planner.PlanItinerary(ctx, domain.PlanContext{
		Location:    loc,
		Days:        req.Days,
		Preferences: req.Preferences,
		DailyHours:  (window.EndMinutes - window.StartMinutes) / 60,
		Sites:       enriched,
	})
	if err != nil {
		// Degraded reply: the deterministic schedule stands in for the
		// model's.
		log.Warn().Err(err).Msg("reasoning model failed, using greedy schedule")
		return OptimizeRoute(enriched, start, window), fallbackSummary, domain.PlannerFallback
	}

	schedule := ValidateProposal(proposal, enriched)
	summary := proposal.Summary
	if summary == "" {
		summary = fallbackSummary
	}
	return schedule, summary, domain.PlannerReasoning
}

// fetchCandidates fans out to the knowledge-graph and points-of-interest
// sources concurrently and concatenates the results knowledge-graph first.
// Arrival order matters: the deduplicator keeps the first record per place.
// Both adapters degrade to empty lists, so one dead source never aborts the
// request; sibling fetches always run to completion.
func (s *Service) fetchCandidates(ctx context.Context, loc domain.GeocodedLocation, radiusKm float64, limit int) []domain.Site {
	var (
		wg       sync.WaitGroup
		kgSites  []domain.Site
		poiSites []domain.Site
	)
	center := domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}

	wg.Add(2)
	go func() {
		defer wg.Done()
		kgSites, _ = s.kg.Search(ctx, center, radiusKm, limit)
	}()
	go func() {
		defer wg.Done()
		poiSites, _ = s.poi.Nearby(ctx, loc.Lat, loc.Lng, int(radiusKm*1000))
	}()
	wg.Wait()

	log.Info().
		Int("knowledge_graph", len(kgSites)).
		Int("points_of_interest", len(poiSites)).
		Msg("candidate fetch complete")

	return Dedupe(append(kgSites, poiSites...))
}

func filterCategories(sites []domain.Site, categories []string) []domain.Site {
	if len(categories) == 0 {
		return sites
	}
	want := make(map[domain.Category]bool, len(categories))
	for _, c := range categories {
		want[domain.Category(c)] = true
	}
	out := make([]domain.Site, 0, len(sites))
	for _, s := range sites {
		if want[s.Category] {
			out = append(out, s)
		}
	}
	return out
}

// Route proxies the road-routing adapter; the estimate degrades to a
// haversine fallback inside the adapter, so this never fails on upstream
// trouble.
func (s *Service) Route(ctx context.Context, coords []domain.Coordinates) (domain.RouteEstimate, error) {
	return s.router.Route(ctx, coords)
}

// GetItinerary reads back a persisted itinerary.
func (s *Service) GetItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	return s.repo.GetItinerary(ctx, id)
}
