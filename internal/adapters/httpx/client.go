// Package httpx is the shared HTTP client used by every source adapter.
// It carries the one retry policy (max attempts, base delay, doubling
// backoff) applied uniformly at all upstream boundaries, plus client-side
// rate limiting for etiquette-sensitive public APIs.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"heritage_pulse/internal/adapters/observability"
)

const userAgent = "heritage-pulse/1.0 (mailto:admin@heritagepulse.app)"

// RetryPolicy controls the retry loop. Delay for attempt i is
// BaseDelay * 2^i; a server-provided Retry-After takes precedence.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attempt)
}

type Client struct {
	hc      *http.Client
	rl      *rate.Limiter
	policy  RetryPolicy
	service string // metrics label
	headers map[string]string
}

// New builds a client for one upstream service. rps <= 0 disables the
// client-side limiter; timeout bounds each individual attempt.
func New(service string, timeout time.Duration, rps int, policy RetryPolicy) *Client {
	var rl *rate.Limiter
	if rps > 0 {
		rl = rate.NewLimiter(rate.Limit(rps), rps)
	}
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		rl:      rl,
		policy:  policy,
		service: service,
		headers: map[string]string{},
	}
}

// WithHeader sets a header applied to every request (e.g. Authorization).
func (c *Client) WithHeader(key, value string) *Client {
	c.headers[key] = value
	return c
}

// GetJSON performs a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.doJSON(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}, out)
}

// PostJSON performs a POST with the given body and content type and decodes
// the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, url, contentType string, body []byte, out any) error {
	return c.doJSON(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}, out)
}

// doJSON runs the retry loop: fresh request each attempt, retry on network
// errors, 429 and transient 5xx, decode into out on 2xx.
func (c *Client) doJSON(ctx context.Context, makeReq func() (*http.Request, error), out any) error {
	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}
	}

	var lastErr error
	for i := 0; i < c.policy.MaxAttempts; i++ {
		req, err := makeReq()
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal(c.service, req.URL.Path, 0, time.Since(start))
			lastErr = err
			if i < c.policy.MaxAttempts-1 && sleepCtx(ctx, c.policy.delay(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		observability.ObserveExternal(c.service, req.URL.Path, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return nil
			}
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%s: decode response: %w", c.service, err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = c.policy.delay(i)
			}
			lastErr = fmt.Errorf("%s: remote %d", c.service, resp.StatusCode)
			if i < c.policy.MaxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%s: bad status %d: %s", c.service, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
