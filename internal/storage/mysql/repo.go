package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"heritage_pulse/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the itineraries table if missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createItinerariesSQL)
	return err
}

func (r *Repo) SaveItinerary(ctx context.Context, it domain.Itinerary) error {
	prefs, err := json.Marshal(it.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	schedule, err := json.Marshal(it.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertItinerarySQL,
		it.ID,
		it.Location,
		it.Days,
		string(prefs),
		string(schedule),
		it.Summary,
		it.Planner,
		it.TotalSites,
	)
	return err
}

func (r *Repo) GetItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	row := r.db.QueryRowContext(ctx, getItinerarySQL, id)

	var (
		it       domain.Itinerary
		prefs    sql.NullString
		schedule []byte
		summary  sql.NullString
	)
	err := row.Scan(&it.ID, &it.Location, &it.Days, &prefs, &schedule, &summary, &it.Planner, &it.TotalSites)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Itinerary{}, domain.ErrItineraryNotFound
	}
	if err != nil {
		return domain.Itinerary{}, err
	}

	if prefs.Valid && prefs.String != "" {
		if err := json.Unmarshal([]byte(prefs.String), &it.Preferences); err != nil {
			return domain.Itinerary{}, fmt.Errorf("unmarshal preferences: %w", err)
		}
	}
	if err := json.Unmarshal(schedule, &it.Schedule); err != nil {
		return domain.Itinerary{}, fmt.Errorf("unmarshal schedule: %w", err)
	}
	it.Summary = summary.String
	return it, nil
}
