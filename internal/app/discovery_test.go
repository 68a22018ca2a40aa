package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"heritage_pulse/internal/domain"
)

type fakeGeocoder struct {
	loc *domain.GeocodedLocation
	err error
}

func (f *fakeGeocoder) Geocode(context.Context, string) (*domain.GeocodedLocation, error) {
	return f.loc, f.err
}

type fakeSearcher struct{ sites []domain.Site }

func (f *fakeSearcher) Search(context.Context, domain.Coordinates, float64, int) ([]domain.Site, error) {
	return f.sites, nil
}

type fakePOI struct{ sites []domain.Site }

func (f *fakePOI) Nearby(context.Context, float64, float64, int) ([]domain.Site, error) {
	return f.sites, nil
}

type stubNarrative struct{}

func (stubNarrative) Summarize(_ context.Context, title, _ string) (domain.NarrativeSummary, error) {
	return domain.NarrativeSummary{Found: true, Title: title, Summary: "About " + title + "."}, nil
}

type memRepo struct {
	saved map[string]domain.Itinerary
	err   error
}

func (m *memRepo) SaveItinerary(_ context.Context, it domain.Itinerary) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = map[string]domain.Itinerary{}
	}
	m.saved[it.ID] = it
	return nil
}

func (m *memRepo) GetItinerary(_ context.Context, id string) (domain.Itinerary, error) {
	it, ok := m.saved[id]
	if !ok {
		return domain.Itinerary{}, domain.ErrItineraryNotFound
	}
	return it, nil
}

type proposalPlanner struct {
	proposal domain.PlannerProposal
	err      error
}

func (p *proposalPlanner) PlanItinerary(context.Context, domain.PlanContext) (domain.PlannerProposal, error) {
	return p.proposal, p.err
}

func (p *proposalPlanner) Chat(context.Context, []domain.ChatMessage, string) (string, error) {
	return "", errors.New("not used")
}

func delhiFixture() (*fakeGeocoder, *fakeSearcher, *fakePOI) {
	geo := &fakeGeocoder{loc: &domain.GeocodedLocation{Lat: 28.6139, Lng: 77.2090, DisplayName: "Delhi, India"}}
	kg := &fakeSearcher{sites: []domain.Site{
		site("Q1", "Red Fort", 28.6562, 77.2410, domain.SourceKnowledgeGraph),
		site("Q2", "India Gate", 28.6129, 77.2295, domain.SourceKnowledgeGraph),
	}}
	poi := &fakePOI{sites: []domain.Site{
		// Duplicate of Red Fort within tolerance, must be deduplicated.
		site("osm_1", "Red Fort", 28.6561, 77.2411, domain.SourcePointsOfInterest),
		site("osm_2", "Humayun's Tomb", 28.5933, 77.2507, domain.SourcePointsOfInterest),
	}}
	return geo, kg, poi
}

func newTestService(geo domain.Geocoder, kg domain.SiteSearcher, poi domain.POISearcher, planner domain.Planner, repo domain.ItineraryRepository) *Service {
	enricher := NewEnricher(stubNarrative{}, 2)
	return NewService(geo, kg, poi, enricher, nil, planner, repo, nil, time.Minute)
}

func TestDiscover_DedupesAcrossSources(t *testing.T) {
	geo, kg, poi := delhiFixture()
	svc := newTestService(geo, kg, poi, nil, nil)

	resp, err := svc.Discover(context.Background(), DiscoverRequest{Location: "Delhi", RadiusKm: 30})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("expected 3 sites after dedup, got %d", resp.Count)
	}
	if resp.Location.Name != "Delhi, India" {
		t.Fatalf("unexpected location: %+v", resp.Location)
	}
	// Knowledge-graph record wins the duplicate.
	for _, s := range resp.Sites {
		if s.Name == "Red Fort" && s.Source != domain.SourceKnowledgeGraph {
			t.Fatalf("expected knowledge-graph record to survive, got %+v", s)
		}
	}
}

type memCache struct {
	data map[string][]byte
	sets int
}

func (m *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = b
	m.sets++
	return nil
}

func (m *memCache) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestDiscover_CacheAside(t *testing.T) {
	geo, kg, poi := delhiFixture()
	cache := &memCache{}
	enricher := NewEnricher(stubNarrative{}, 2)
	svc := NewService(geo, kg, poi, enricher, nil, nil, nil, cache, time.Minute)

	req := DiscoverRequest{Location: "Delhi", RadiusKm: 30}
	first, err := svc.Discover(context.Background(), req)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	// Second call is served from cache; drain the sources to prove it.
	kg.sites, poi.sites = nil, nil
	second, err := svc.Discover(context.Background(), req)
	if err != nil {
		t.Fatalf("Discover (cached): %v", err)
	}
	if second.Count != first.Count {
		t.Fatalf("cached response differs: %d vs %d", second.Count, first.Count)
	}

	// Category-filtered requests bypass the cache.
	filtered, err := svc.Discover(context.Background(), DiscoverRequest{Location: "Delhi", RadiusKm: 30, Categories: []string{"Fort"}})
	if err != nil {
		t.Fatalf("Discover (filtered): %v", err)
	}
	if filtered.Count != 0 {
		t.Fatalf("filtered request must hit the drained sources, got %d", filtered.Count)
	}
}

func TestDiscover_UnknownLocation(t *testing.T) {
	svc := newTestService(&fakeGeocoder{}, &fakeSearcher{}, &fakePOI{}, nil, nil)

	_, err := svc.Discover(context.Background(), DiscoverRequest{Location: "Nowhereville", RadiusKm: 30})
	if !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestDiscover_CategoryFilter(t *testing.T) {
	geo, kg, poi := delhiFixture()
	kg.sites[0].Category = domain.CategoryFort
	kg.sites[1].Category = domain.CategoryMemorial
	poi.sites[1].Category = domain.CategoryUNESCO
	svc := newTestService(geo, kg, poi, nil, nil)

	resp, err := svc.Discover(context.Background(), DiscoverRequest{
		Location: "Delhi", RadiusKm: 30, Categories: []string{"Fort"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if resp.Count != 1 || resp.Sites[0].Category != domain.CategoryFort {
		t.Fatalf("filter failed: %+v", resp.Sites)
	}
}

func TestGenerateItinerary_GreedyWithoutPlanner(t *testing.T) {
	geo, kg, poi := delhiFixture()
	repo := &memRepo{}
	svc := newTestService(geo, kg, poi, nil, repo)

	it, err := svc.GenerateItinerary(context.Background(), ItineraryRequest{Location: "Delhi", Days: 2, RadiusKm: 30})
	if err != nil {
		t.Fatalf("GenerateItinerary: %v", err)
	}
	if it.ID == "" || it.Planner != domain.PlannerGreedy {
		t.Fatalf("unexpected itinerary: planner=%q id=%q", it.Planner, it.ID)
	}
	if it.TotalSites != 3 {
		t.Fatalf("expected 3 scheduled sites, got %d", it.TotalSites)
	}
	if _, ok := repo.saved[it.ID]; !ok {
		t.Fatal("itinerary not persisted")
	}

	got, err := svc.GetItinerary(context.Background(), it.ID)
	if err != nil || got.ID != it.ID {
		t.Fatalf("GetItinerary: %v %+v", err, got)
	}
}

func TestGenerateItinerary_PlannerProposalValidated(t *testing.T) {
	geo, kg, poi := delhiFixture()
	planner := &proposalPlanner{proposal: domain.PlannerProposal{
		Summary: "Mughal highlights",
		Days: []domain.ProposalDay{{
			Day:   1,
			Theme: "Old Delhi",
			Activities: []domain.ProposalActivity{
				{Time: "09:30", Location: "Red Fort", SiteID: "Q1"},
				{Time: "14:00", Location: "Imaginary Pavilion"},
			},
		}},
	}}
	svc := newTestService(geo, kg, poi, planner, nil)

	it, err := svc.GenerateItinerary(context.Background(), ItineraryRequest{Location: "Delhi", Days: 1, RadiusKm: 30})
	if err != nil {
		t.Fatalf("GenerateItinerary: %v", err)
	}
	if it.Planner != domain.PlannerReasoning {
		t.Fatalf("expected reasoning planner, got %q", it.Planner)
	}
	if it.Summary != "Mughal highlights" {
		t.Fatalf("summary lost: %q", it.Summary)
	}
	if it.TotalSites != 1 {
		t.Fatalf("hallucinated stop survived: %d sites", it.TotalSites)
	}
}

func TestGenerateItinerary_PlannerFailureFallsBack(t *testing.T) {
	geo, kg, poi := delhiFixture()
	planner := &proposalPlanner{err: errors.New("model timeout")}
	svc := newTestService(geo, kg, poi, planner, nil)

	it, err := svc.GenerateItinerary(context.Background(), ItineraryRequest{Location: "Delhi", Days: 2, RadiusKm: 30})
	if err != nil {
		t.Fatalf("GenerateItinerary: %v", err)
	}
	if it.Planner != domain.PlannerFallback {
		t.Fatalf("expected fallback planner, got %q", it.Planner)
	}
	if it.TotalSites == 0 {
		t.Fatal("fallback schedule is empty")
	}
}

func TestGenerateItinerary_PersistFailureIsBestEffort(t *testing.T) {
	geo, kg, poi := delhiFixture()
	repo := &memRepo{err: errors.New("db down")}
	svc := newTestService(geo, kg, poi, nil, repo)

	it, err := svc.GenerateItinerary(context.Background(), ItineraryRequest{Location: "Delhi", Days: 1, RadiusKm: 30})
	if err != nil {
		t.Fatalf("persist failure must not fail the request: %v", err)
	}
	if it.ID == "" {
		t.Fatal("expected an itinerary despite persist failure")
	}
}

func TestGenerateItinerary_BadWindow(t *testing.T) {
	geo, kg, poi := delhiFixture()
	svc := newTestService(geo, kg, poi, nil, nil)

	_, err := svc.GenerateItinerary(context.Background(), ItineraryRequest{
		Location: "Delhi", Days: 1, RadiusKm: 30,
		Preferences: domain.Preferences{StartTime: "18:00", EndTime: "09:00"},
	})
	if err == nil {
		t.Fatal("expected error for inverted window")
	}
}
