// Package nominatim implements the geocoder adapter on the OSM Nominatim
// search API.
package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"heritage_pulse/internal/adapters/httpx"
	"heritage_pulse/internal/domain"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

type Client struct {
	base string
	hc   *httpx.Client
}

func New(base string, timeout time.Duration, policy httpx.RetryPolicy) *Client {
	if base == "" {
		base = defaultBaseURL
	}
	// Nominatim's usage policy caps clients at 1 req/s.
	return &Client{base: base, hc: httpx.New("nominatim", timeout, 1, policy)}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a place name to coordinates. Returns (nil, nil) when the
// upstream has no match; unlike the other adapters a transport failure is
// surfaced, since geocoding is the pipeline's one hard dependency.
func (c *Client) Geocode(ctx context.Context, name string) (*domain.GeocodedLocation, error) {
	if name == "" {
		return nil, fmt.Errorf("nominatim: place name is required")
	}

	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")

	var results []searchResult
	if err := c.hc.GetJSON(ctx, c.base+"/search?"+q.Encode(), &results); err != nil {
		return nil, fmt.Errorf("nominatim: geocode %q: %w", name, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: bad lat %q", results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: bad lon %q", results[0].Lon)
	}

	return &domain.GeocodedLocation{Lat: lat, Lng: lng, DisplayName: results[0].DisplayName}, nil
}
