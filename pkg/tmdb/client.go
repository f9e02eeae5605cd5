package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/deeperweave/backend/pkg/logging"
	"github.com/deeperweave/backend/pkg/metrics"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured = errors.New("tmdb api key not configured")
	ErrNotFound      = errors.New("tmdb resource not found")
)

const (
	detailsTTL = 24 * time.Hour
	searchTTL  = 10 * time.Minute
)

// Client talks to the TMDB v3 REST API behind a rate limiter and a circuit
// breaker. Successful responses are cached when a Cache is configured.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	cache      Cache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }
func WithCache(cache Cache) Option         { return func(c *Client) { c.cache = cache } }
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// TMDB allows roughly 40 requests per second per IP.
		limiter: rate.NewLimiter(rate.Limit(35), 10),
	}
	for _, opt := range opts {
		opt(c)
	}

	name := "tmdb-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// Missing ids are a normal answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	return c
}

// GetMovie fetches movie details by TMDB id.
func (c *Client) GetMovie(ctx context.Context, id int64) (*Details, error) {
	return c.details(ctx, "/movie/"+strconv.FormatInt(id, 10), "movie")
}

// GetSeries fetches tv series details by TMDB id.
func (c *Client) GetSeries(ctx context.Context, id int64) (*Details, error) {
	return c.details(ctx, "/tv/"+strconv.FormatInt(id, 10), "tv")
}

func (c *Client) details(ctx context.Context, path, endpoint string) (*Details, error) {
	body, err := c.get(ctx, path, nil, endpoint, detailsTTL)
	if err != nil {
		return nil, err
	}
	var d Details
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("decode tmdb %s: %w", endpoint, err)
	}
	return &d, nil
}

// SearchMulti searches movies, series and people. Results without artwork are
// dropped.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{"query": {query}, "include_adult": {"false"}}
	body, err := c.get(ctx, "/search/multi", params, "search", searchTTL)
	if err != nil {
		return nil, err
	}
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode tmdb search: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.PosterPath == "" && r.ProfilePath == "" {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, endpoint string, ttl time.Duration) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	cacheKey := path
	if len(params) > 0 {
		cacheKey += "?" + params.Encode()
	}
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, cacheKey); ok {
			metrics.TMDBCacheLookups.WithLabelValues("hit").Inc()
			return body, nil
		}
		metrics.TMDBCacheLookups.WithLabelValues("miss").Inc()
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.do(ctx, path, params)
	})
	if err != nil {
		metrics.TMDBRequests.WithLabelValues(endpoint, outcome(err)).Inc()
		return nil, err
	}
	metrics.TMDBRequests.WithLabelValues(endpoint, "ok").Inc()

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, body, ttl)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("tmdb request %s: %w", path, c.redact(err, path))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request %s: %w", path, c.redact(err, path))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("tmdb %s returned status %d", path, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// redact drops the query string, and with it the api key, from transport
// errors before they reach a log line.
func (c *Client) redact(err error, path string) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = c.baseURL + path
	}
	return err
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "error"
	}
}
