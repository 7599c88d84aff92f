// Package dashboard is a minimal REST client for the cloud dashboard API:
// typed endpoints for networks, policy objects/groups and L3 firewall rules,
// with client-side pacing, 429/5xx retry and Link-header pagination.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grimm.is/moraine/internal/brand"
	"grimm.is/moraine/internal/clock"
	"grimm.is/moraine/internal/config"
	"grimm.is/moraine/internal/logging"
	"grimm.is/moraine/internal/ratelimit"
)

const (
	defaultPerPage = 1000

	// retryAfterCap bounds how long a single Retry-After header can stall
	// the run; anything above this is treated as a misbehaving response.
	retryAfterCap = 30 * time.Second
)

// Client talks to the dashboard API for one organization.
type Client struct {
	baseURL    string
	apiKey     string
	orgID      string
	userAgent  string
	maxRetries int
	rateLimit  int // requests per second

	hc      *http.Client
	limiter *ratelimit.Limiter
	clk     clock.Clock
	log     *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithClock replaces the time source (tests).
func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		c.clk = clk
		c.limiter = ratelimit.NewLimiterWithClock(clk)
	}
}

// WithLogger replaces the component logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a dashboard client from config.
func New(cfg *config.DashboardConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		orgID:      cfg.OrgID,
		userAgent:  brand.UserAgent(brand.Version),
		maxRetries: cfg.MaxRetries,
		rateLimit:  cfg.RateLimit,
		hc:         &http.Client{Timeout: cfg.TimeoutDuration()},
		limiter:    ratelimit.NewLimiter(),
		clk:        &clock.RealClock{},
		log:        logging.WithComponent("dashboard"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OrgID returns the organization this client is scoped to.
func (c *Client) OrgID() string {
	return c.orgID
}

// orgPath builds an organization-scoped endpoint path.
func (c *Client) orgPath(suffix string) string {
	return "/organizations/" + url.PathEscape(c.orgID) + suffix
}

// do issues one API call with pacing and retry, decoding a 2xx JSON body
// into out when out is non-nil. urlStr may be a path (joined onto the base
// URL) or an absolute URL from a pagination Link header. The response
// headers are returned for the pagination helpers.
func (c *Client) do(ctx context.Context, method, urlStr string, body, out any) (http.Header, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	fullURL := urlStr
	if strings.HasPrefix(urlStr, "/") {
		fullURL = c.baseURL + urlStr
	}

	retries := 0
	for {
		c.limiter.Wait("org:"+c.orgID, c.rateLimit, time.Second)

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("X-Cisco-Meraki-API-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := c.clk.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("dashboard %s %s: %w", method, urlStr, err)
		}
		duration := c.clk.Since(start)
		c.log.Debug("api call", "method", method, "url", fullURL,
			"status", resp.StatusCode, "duration", duration.String())

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("dashboard %s %s: read body: %w", method, urlStr, readErr)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			if retries >= c.maxRetries {
				return nil, newAPIError(resp.StatusCode, method, urlStr, respBody)
			}
			retries++
			wait := retryAfter(resp.Header)
			c.log.Warn("throttled, backing off", "retry", retries, "wait", wait.String())
			c.clk.Sleep(wait)
			continue

		case resp.StatusCode == http.StatusBadGateway,
			resp.StatusCode == http.StatusServiceUnavailable,
			resp.StatusCode == http.StatusGatewayTimeout:
			if retries >= c.maxRetries {
				return nil, newAPIError(resp.StatusCode, method, urlStr, respBody)
			}
			retries++
			wait := backoff(retries)
			c.log.Warn("upstream error, retrying", "status", resp.StatusCode,
				"retry", retries, "wait", wait.String())
			c.clk.Sleep(wait)
			continue

		case resp.StatusCode >= 400:
			return nil, newAPIError(resp.StatusCode, method, urlStr, respBody)
		}

		if out != nil && resp.StatusCode != http.StatusNoContent && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return nil, fmt.Errorf("dashboard %s %s: decode response: %w", method, urlStr, err)
			}
		}
		return resp.Header, nil
	}
}

// listPaged fetches every page of a collection endpoint by following
// Link rel=next headers.
func listPaged[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	if query.Get("perPage") == "" {
		query.Set("perPage", strconv.Itoa(defaultPerPage))
	}

	next := path + "?" + query.Encode()
	var all []T
	for next != "" {
		var page []T
		header, err := c.do(ctx, http.MethodGet, next, nil, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		next = nextLink(header)
	}
	return all, nil
}

// nextLink extracts the rel=next target from a Link header, if any.
func nextLink(h http.Header) string {
	for _, link := range h.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			target, params, ok := strings.Cut(strings.TrimSpace(part), ";")
			if !ok {
				continue
			}
			if !strings.Contains(params, "next") {
				continue
			}
			target = strings.TrimSpace(target)
			target = strings.TrimPrefix(target, "<")
			target = strings.TrimSuffix(target, ">")
			return target
		}
	}
	return ""
}

// retryAfter honors the Retry-After header, with a sane default and cap.
func retryAfter(h http.Header) time.Duration {
	wait := time.Second
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait > retryAfterCap {
		wait = retryAfterCap
	}
	return wait
}

// backoff returns a capped exponential delay for upstream 5xx retries.
func backoff(attempt int) time.Duration {
	d := time.Second << uint(attempt-1)
	if d > 8*time.Second {
		d = 8 * time.Second
	}
	return d
}
