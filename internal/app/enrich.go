package app

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"heritage_pulse/internal/domain"
)

const fallbackSummary = "Summary unavailable"

// Category-based placeholder images used when neither the narrative lookup
// nor the source record carries one.
var placeholderImages = map[domain.Category]string{
	domain.CategoryMuseum: "https://placehold.co/600x400?text=Museum",
	domain.CategoryTemple: "https://placehold.co/600x400?text=Temple",
	domain.CategoryFort:   "https://placehold.co/600x400?text=Fort",
}

const placeholderDefault = "https://placehold.co/600x400?text=Heritage+Site"

// Enricher attaches narrative summaries and images to candidate sites.
// Lookups fan out concurrently but are bounded: the upstream is a free,
// rate-limited API, so an unbounded fan-out over 40 candidates would get
// the whole batch throttled.
type Enricher struct {
	narrative domain.NarrativeSource
	workers   int64
}

func NewEnricher(n domain.NarrativeSource, workers int) *Enricher {
	if workers <= 0 {
		workers = 6
	}
	return &Enricher{narrative: n, workers: int64(workers)}
}

// Enrich fills Summary, Verified and Images on each site, one independent
// lookup per candidate. A failed lookup only affects its own record, which
// keeps the fallback summary; output order matches input order.
func (e *Enricher) Enrich(ctx context.Context, sites []domain.Site) []domain.Site {
	out := make([]domain.Site, len(sites))
	sem := semaphore.NewWeighted(e.workers)
	var wg sync.WaitGroup

	for i, s := range sites {
		i, s := i, s
		if err := sem.Acquire(ctx, 1); err != nil {
			// context gone: keep the remaining sites un-enriched
			out[i] = withFallback(s)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			out[i] = e.enrichOne(ctx, s)
		}()
	}

	wg.Wait()
	return out
}

func (e *Enricher) enrichOne(ctx context.Context, s domain.Site) domain.Site {
	ns, err := e.narrative.Summarize(ctx, lookupTitle(s), "en")
	if err != nil || !ns.Found {
		return withFallback(s)
	}

	s.Summary = CleanSummary(ns.Summary, 500)
	s.Verified = true
	if ns.URL != "" && s.WikipediaURL == "" {
		s.WikipediaURL = ns.URL
	}
	if ns.ImageURL != "" {
		s.Images = append([]string{ns.ImageURL}, s.Images...)
	}
	if len(s.Images) == 0 {
		s.Images = []string{placeholderFor(s.Category)}
	}
	return s
}

func withFallback(s domain.Site) domain.Site {
	s.Summary = fallbackSummary
	if len(s.Images) == 0 {
		s.Images = []string{placeholderFor(s.Category)}
	}
	return s
}

func placeholderFor(c domain.Category) string {
	if u, ok := placeholderImages[c]; ok {
		return u
	}
	return placeholderDefault
}

// lookupTitle prefers the article title embedded in a known wiki URL over
// the raw site name, which is often a local-language label.
func lookupTitle(s domain.Site) string {
	if s.WikipediaURL != "" {
		if i := strings.Index(s.WikipediaURL, "/wiki/"); i >= 0 {
			if t, err := url.PathUnescape(s.WikipediaURL[i+len("/wiki/"):]); err == nil && t != "" {
				return t
			}
		}
	}
	return s.Name
}

// SelectForEnrichment picks the bounded, named subset of deduplicated
// candidates eligible for enrichment: unnamed records and lodging noise are
// dropped, then the list is truncated to cap.
func SelectForEnrichment(sites []domain.Site, cap int) []domain.Site {
	out := make([]domain.Site, 0, cap)
	for _, s := range sites {
		if s.Name == "" || s.Name == "Unknown Site" || strings.Contains(strings.ToLower(s.Name), "hotel") {
			continue
		}
		out = append(out, s)
		if len(out) == cap {
			break
		}
	}
	return out
}

var citationRe = regexp.MustCompile(`\[\d+\]|\[citation needed\]`)
var spaceRe = regexp.MustCompile(`\s+`)

// CleanSummary strips citation markers, normalizes whitespace, and
// truncates at the last full sentence within maxLen.
func CleanSummary(summary string, maxLen int) string {
	if summary == "" {
		return "No historical context available."
	}
	clean := citationRe.ReplaceAllString(summary, "")
	clean = strings.TrimSpace(spaceRe.ReplaceAllString(clean, " "))
	if len(clean) <= maxLen {
		return clean
	}
	truncated := clean[:maxLen]
	if i := strings.LastIndex(truncated, "."); i > 0 {
		return truncated[:i+1]
	}
	return truncated + "..."
}
