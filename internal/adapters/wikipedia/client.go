// Package wikipedia implements the narrative-summary lookup on the
// MediaWiki query API.
package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"heritage_pulse/internal/adapters/httpx"
	"heritage_pulse/internal/domain"
)

type Client struct {
	base string // non-empty overrides the per-language default, for tests
	hc   *httpx.Client
}

func New(base string, timeout time.Duration, policy httpx.RetryPolicy) *Client {
	return &Client{base: base, hc: httpx.New("wikipedia", timeout, 4, policy)}
}

type queryResponse struct {
	Query struct {
		Pages map[string]page `json:"pages"`
	} `json:"query"`
}

type page struct {
	PageID    int    `json:"pageid"`
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	FullURL   string `json:"fullurl"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// Summarize fetches the introduction of the article with the given title.
// It never fails the caller: any upstream problem yields a Found=false stub
// so sibling enrichment lookups keep their own results.
func (c *Client) Summarize(ctx context.Context, title, lang string) (domain.NarrativeSummary, error) {
	if lang == "" {
		lang = "en"
	}
	base := c.base
	if base == "" {
		base = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("prop", "extracts|pageimages|info")
	q.Set("titles", title)
	q.Set("exintro", "true")
	q.Set("explaintext", "true")
	q.Set("exchars", "1000")
	q.Set("pithumbsize", "500")
	q.Set("inprop", "url")
	q.Set("redirects", "1")

	var resp queryResponse
	if err := c.hc.GetJSON(ctx, base+"?"+q.Encode(), &resp); err != nil {
		log.Warn().Err(err).Str("title", title).Msg("wikipedia lookup failed")
		return domain.NarrativeSummary{
			Title:   title,
			Summary: "Historical context currently unavailable.",
		}, nil
	}

	for id, p := range resp.Query.Pages {
		if id == "-1" {
			return domain.NarrativeSummary{
				Title:   p.Title,
				Summary: "No historical information found for this specific site.",
			}, nil
		}
		out := domain.NarrativeSummary{
			Found:   true,
			Title:   p.Title,
			Summary: p.Extract,
			URL:     p.FullURL,
		}
		if out.Summary == "" {
			out.Summary = "No summary available."
		}
		if out.URL == "" {
			out.URL = "https://" + lang + ".wikipedia.org/wiki/" + url.PathEscape(p.Title)
		}
		if p.Thumbnail != nil {
			out.ImageURL = p.Thumbnail.Source
		}
		return out, nil
	}

	return domain.NarrativeSummary{
		Title:   title,
		Summary: "Historical context currently unavailable.",
	}, nil
}
