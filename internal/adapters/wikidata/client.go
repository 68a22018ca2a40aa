// Package wikidata implements the knowledge-graph site search on the
// Wikidata SPARQL endpoint.
package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"heritage_pulse/internal/adapters/httpx"
	"heritage_pulse/internal/domain"
)

const defaultEndpoint = "https://query.wikidata.org/sparql"

type Client struct {
	endpoint string
	hc       *httpx.Client
}

func New(endpoint string, timeout time.Duration, policy httpx.RetryPolicy) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{endpoint: endpoint, hc: httpx.New("wikidata", timeout, 2, policy)}
}

// Q2065736 = cultural heritage site, Q4989906 = monument,
// Q811979 = architectural structure.
const sparqlTemplate = `
SELECT DISTINCT ?item ?itemLabel ?location ?category ?categoryLabel ?image ?article WHERE {
  SERVICE wikibase:around {
    ?item wdt:P625 ?location .
    bd:serviceParam wikibase:center "Point(%g %g)"^^geo:wktLiteral .
    bd:serviceParam wikibase:radius "%g" .
  }
  VALUES ?classes { wd:Q2065736 wd:Q4989906 wd:Q811979 }
  ?item wdt:P31/wdt:P279* ?classes .
  ?item wdt:P31 ?category .
  OPTIONAL { ?item wdt:P18 ?image . }
  OPTIONAL {
    ?article schema:about ?item .
    ?article schema:isPartOf <https://en.wikipedia.org/> .
  }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en" . }
}
LIMIT %d`

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

var pointRe = regexp.MustCompile(`Point\(([-\d.]+) ([-\d.]+)\)`)

// Search finds heritage sites around center within radiusKm. Exhausted
// retries or a malformed response degrade to an empty list; the caller's
// pipeline must keep going on one dead source.
func (c *Client) Search(ctx context.Context, center domain.Coordinates, radiusKm float64, limit int) ([]domain.Site, error) {
	query := fmt.Sprintf(sparqlTemplate, center.Lng, center.Lat, radiusKm, limit)

	q := url.Values{}
	q.Set("query", query)
	q.Set("format", "json")

	var resp sparqlResponse
	if err := c.hc.GetJSON(ctx, c.endpoint+"?"+q.Encode(), &resp); err != nil {
		log.Warn().Err(err).Msg("wikidata search failed, returning no candidates")
		return nil, nil
	}

	sites := make([]domain.Site, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		item, ok := b["item"]
		if !ok {
			continue
		}
		loc, ok := parsePoint(b["location"].Value)
		if !ok {
			continue
		}

		name := b["itemLabel"].Value
		if name == "" {
			name = "Unknown Site"
		}

		s := domain.Site{
			ID:           lastPathSegment(item.Value),
			Name:         name,
			Category:     normalizeCategory(b["categoryLabel"].Value, name),
			Coordinates:  loc,
			Source:       domain.SourceKnowledgeGraph,
			WikipediaURL: b["article"].Value,
		}
		if img := b["image"].Value; img != "" {
			s.Images = []string{img}
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// parsePoint extracts coordinates from a "Point(lng lat)" WKT literal.
func parsePoint(wkt string) (domain.Coordinates, bool) {
	m := pointRe.FindStringSubmatch(wkt)
	if len(m) != 3 {
		return domain.Coordinates{}, false
	}
	lng, err1 := strconv.ParseFloat(m[1], 64)
	lat, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lng: lng}, true
}

func lastPathSegment(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// normalizeCategory maps free-form Wikidata class labels onto the canonical
// category enum.
func normalizeCategory(label, name string) domain.Category {
	l := strings.ToLower(label + " " + name)
	switch {
	case strings.Contains(l, "world heritage") || strings.Contains(l, "unesco"):
		return domain.CategoryUNESCO
	case strings.Contains(l, "temple") || strings.Contains(l, "church") || strings.Contains(l, "mosque") || strings.Contains(l, "shrine"):
		return domain.CategoryTemple
	case strings.Contains(l, "fort") || strings.Contains(l, "castle"):
		return domain.CategoryFort
	case strings.Contains(l, "palace"):
		return domain.CategoryPalace
	case strings.Contains(l, "museum") || strings.Contains(l, "gallery"):
		return domain.CategoryMuseum
	case strings.Contains(l, "memorial"):
		return domain.CategoryMemorial
	case strings.Contains(l, "ruin") || strings.Contains(l, "archaeological"):
		return domain.CategoryRuins
	case label == "":
		return domain.CategoryOther
	default:
		return domain.CategoryMonument
	}
}
