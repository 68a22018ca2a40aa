// Package osrm implements the road-routing adapter on the OSRM HTTP API,
// with a straight-line fallback so routing never fails the caller.
package osrm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"heritage_pulse/internal/adapters/httpx"
	"heritage_pulse/internal/domain"
	"heritage_pulse/internal/geo"
)

const defaultBaseURL = "http://router.project-osrm.org"

// fallbackSpeedKmH is the assumed average speed when estimating duration
// from straight-line distance.
const fallbackSpeedKmH = 60.0

type Client struct {
	base string
	hc   *httpx.Client
}

func New(base string, timeout time.Duration, policy httpx.RetryPolicy) *Client {
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{base: base, hc: httpx.New("osrm", timeout, 0, policy)}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route estimates distance and duration along the ordered coordinate list.
// On exhausted retries or a bad upstream answer it degrades to the haversine
// fallback, tagged RouteSourceFallback with the same field shape.
func (c *Client) Route(ctx context.Context, coords []domain.Coordinates) (domain.RouteEstimate, error) {
	if len(coords) < 2 {
		return domain.RouteEstimate{}, fmt.Errorf("osrm: at least two coordinates are required")
	}

	parts := make([]string, len(coords))
	for i, co := range coords {
		parts[i] = fmt.Sprintf("%g,%g", co.Lng, co.Lat)
	}
	url := fmt.Sprintf("%s/route/v1/driving/%s?overview=false", c.base, strings.Join(parts, ";"))

	var resp routeResponse
	if err := c.hc.GetJSON(ctx, url, &resp); err != nil {
		log.Warn().Err(err).Msg("osrm unavailable, falling back to straight-line estimate")
		return fallbackRoute(coords), nil
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		log.Warn().Str("code", resp.Code).Msg("osrm returned no route, falling back")
		return fallbackRoute(coords), nil
	}

	return domain.RouteEstimate{
		DistanceKm:    resp.Routes[0].Distance / 1000,
		DurationHours: resp.Routes[0].Duration / 3600,
		Source:        domain.RouteSourceRouted,
	}, nil
}

// fallbackRoute sums haversine legs and assumes a constant average speed.
func fallbackRoute(coords []domain.Coordinates) domain.RouteEstimate {
	var totalKm float64
	for i := 0; i < len(coords)-1; i++ {
		totalKm += geo.Haversine(coords[i], coords[i+1])
	}
	return domain.RouteEstimate{
		DistanceKm:    totalKm,
		DurationHours: totalKm / fallbackSpeedKmH,
		Source:        domain.RouteSourceFallback,
	}
}
