// Package overpass implements the points-of-interest search on the OSM
// Overpass API.
package overpass

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"heritage_pulse/internal/adapters/httpx"
	"heritage_pulse/internal/domain"
)

const defaultBaseURL = "https://overpass-api.de/api/interpreter"

type Client struct {
	base string
	hc   *httpx.Client
}

func New(base string, timeout time.Duration, policy httpx.RetryPolicy) *Client {
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{base: base, hc: httpx.New("overpass", timeout, 2, policy)}
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// Nearby finds named historic/tourism elements around a point. Exhausted
// retries degrade to an empty list.
func (c *Client) Nearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]domain.Site, error) {
	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node["historic"~"monument|memorial|ruins|castle|fort"](around:%d,%g,%g);
  way["historic"~"monument|memorial|ruins|castle|fort"](around:%d,%g,%g);
  relation["historic"~"monument|memorial|ruins|castle|fort"](around:%d,%g,%g);
  node["tourism"="attraction"](around:%d,%g,%g);
);
out body center qt;`,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng)

	var resp overpassResponse
	if err := c.hc.PostJSON(ctx, c.base, "application/x-www-form-urlencoded", []byte(query), &resp); err != nil {
		log.Warn().Err(err).Msg("overpass search failed, returning no candidates")
		return nil, nil
	}

	sites := make([]domain.Site, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		name := el.Tags["name:en"]
		if name == "" {
			name = el.Tags["name"]
		}
		if name == "" {
			continue
		}

		lat, lng := el.Lat, el.Lon
		if lat == 0 && lng == 0 && el.Center != nil {
			lat, lng = el.Center.Lat, el.Center.Lon
		}
		if lat == 0 && lng == 0 {
			continue
		}

		sites = append(sites, domain.Site{
			ID:          fmt.Sprintf("osm_%d", el.ID),
			Name:        name,
			Category:    categorize(el.Tags),
			Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
			Source:      domain.SourcePointsOfInterest,
		})
	}
	return sites, nil
}

// categorize maps OSM tags onto the canonical category enum.
func categorize(tags map[string]string) domain.Category {
	if tags["heritage"] == "1" {
		return domain.CategoryUNESCO
	}

	historic := strings.ToLower(tags["historic"])
	tourism := strings.ToLower(tags["tourism"])
	name := strings.ToLower(tags["name"])

	switch {
	case historic == "temple" || strings.Contains(name, "temple") || tags["religion"] != "":
		return domain.CategoryTemple
	case historic == "fort" || historic == "castle" || strings.Contains(name, "fort"):
		return domain.CategoryFort
	case historic == "palace" || strings.Contains(name, "palace"):
		return domain.CategoryPalace
	case tourism == "museum" || strings.Contains(name, "museum"):
		return domain.CategoryMuseum
	case historic == "memorial":
		return domain.CategoryMemorial
	case historic == "ruins":
		return domain.CategoryRuins
	default:
		return domain.CategoryMonument
	}
}
