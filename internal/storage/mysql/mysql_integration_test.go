//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"heritage_pulse/internal/domain"
	mysqlrepo "heritage_pulse/internal/storage/mysql"
)

func TestRepo_MySQL_SaveAndGetItinerary(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=heritage",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "heritage")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	it := domain.Itinerary{
		ID:       "11111111-2222-3333-4444-555555555555",
		Location: "Kyoto, Japan",
		Days:     2,
		Schedule: []domain.ScheduleDay{
			{
				Day:   1,
				Theme: "Temples of the east",
				Stops: []domain.ScheduledStop{
					{
						Site: domain.Site{
							ID:          "Q10793744",
							Name:        "Kiyomizu-dera",
							Category:    domain.CategoryTemple,
							Coordinates: domain.Coordinates{Lat: 34.9949, Lng: 135.785},
							Source:      domain.SourceKnowledgeGraph,
							Summary:     "A Buddhist temple in eastern Kyoto.",
							Verified:    true,
						},
						ArrivalTime:       "09:15",
						DurationMinutes:   60,
						TravelTimeMinutes: 15,
						DistanceKm:        4.2,
					},
				},
				Stats: domain.DayStats{TotalDistanceKm: 4.2, TotalTravelMinutes: 15, TotalVisitMinutes: 60, SiteCount: 1},
			},
		},
		Summary:     "A 2-day trip to Kyoto, Japan",
		TotalSites:  1,
		Preferences: domain.Preferences{Categories: []string{"Temple"}, Pace: "moderate"},
		Planner:     domain.PlannerGreedy,
	}
	if err := repo.SaveItinerary(ctx, it); err != nil {
		t.Fatalf("SaveItinerary: %v", err)
	}

	// Upsert: saving the same id again must replace, not duplicate.
	it.Summary = "A revised 2-day trip to Kyoto, Japan"
	if err := repo.SaveItinerary(ctx, it); err != nil {
		t.Fatalf("SaveItinerary (upsert): %v", err)
	}

	got, err := repo.GetItinerary(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetItinerary: %v", err)
	}
	if got.Location != "Kyoto, Japan" || got.Days != 2 || got.Planner != domain.PlannerGreedy {
		t.Fatalf("unexpected itinerary: %+v", got)
	}
	if got.Summary != "A revised 2-day trip to Kyoto, Japan" {
		t.Fatalf("upsert did not replace summary: %q", got.Summary)
	}
	if len(got.Schedule) != 1 || len(got.Schedule[0].Stops) != 1 {
		t.Fatalf("schedule did not round-trip: %+v", got.Schedule)
	}
	if got.Schedule[0].Stops[0].Site.Name != "Kiyomizu-dera" {
		t.Fatalf("unexpected stop: %+v", got.Schedule[0].Stops[0])
	}
	if len(got.Preferences.Categories) != 1 || got.Preferences.Categories[0] != "Temple" {
		t.Fatalf("preferences did not round-trip: %+v", got.Preferences)
	}

	if _, err := repo.GetItinerary(ctx, "no-such-id"); !errors.Is(err, domain.ErrItineraryNotFound) {
		t.Fatalf("expected ErrItineraryNotFound, got %v", err)
	}

	// Optional: small sleep to let CURRENT_TIMESTAMP settle in container clocks
	time.Sleep(50 * time.Millisecond)
}
