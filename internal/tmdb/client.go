package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"samecast/internal/logging"
	"samecast/internal/services"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	maxImageBytes       = 10 << 20
)

// StatusError reports a non-2xx TMDB response.
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned %d", e.Operation, e.StatusCode)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithRateLimit throttles outgoing requests. A non-positive rate disables it.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithImageBaseURL overrides the image CDN root.
func WithImageBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.imageBaseURL = base
		}
	}
}

// WithLogger attaches a logger for request latency diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "tmdb")
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "base url required", nil)
	}
	client := &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: defaultImageBaseURL,
		language:     strings.TrimSpace(language),
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMulti runs a multi search and returns the first page of movie and TV
// matches. People and other media types are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "tmdb", "search", "query must not be empty", nil)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", "1")

	var payload SearchResponse
	if err := c.getJSON(ctx, "multi search", "/search/multi", params, &payload); err != nil {
		return nil, err
	}
	filtered := payload.Results[:0]
	for _, result := range payload.Results {
		switch result.MediaType {
		case "movie", "tv":
			filtered = append(filtered, result)
		}
	}
	payload.Results = filtered
	return &payload, nil
}

// GetMovieDetails fetches a movie with its credits appended.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*Details, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "tmdb", "movie details", "movie id must be positive", nil)
	}
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var payload Details
	if err := c.getJSON(ctx, "movie details", fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetTVDetails fetches a TV show with its aggregate credits appended.
func (c *Client) GetTVDetails(ctx context.Context, showID int64) (*Details, error) {
	if showID <= 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "tmdb", "tv details", "show id must be positive", nil)
	}
	params := url.Values{}
	params.Set("append_to_response", "aggregate_credits")

	var payload Details
	if err := c.getJSON(ctx, "tv details", fmt.Sprintf("/tv/%d", showID), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ImageURL returns the CDN location of an image at the given size.
func (c *Client) ImageURL(size, path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageBaseURL + "/" + strings.Trim(size, "/") + path
}

// FetchImage downloads an image from the CDN.
func (c *Client) FetchImage(ctx context.Context, size, path string) ([]byte, error) {
	if err := c.wait(ctx, "image"); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(size, path), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidInput, "tmdb", "image", "build request", err)
	}
	resp, latency, err := c.do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "tmdb", "image", fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "tmdb", "image", "", &StatusError{Operation: "image", StatusCode: resp.StatusCode})
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "tmdb", "image", "read body", err)
	}
	if len(data) > maxImageBytes {
		return nil, services.Wrap(services.ErrMalformedPayload, "tmdb", "image", fmt.Sprintf("image exceeds %d bytes", maxImageBytes), nil)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, operation, path string, params url.Values, dest any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "tmdb", operation, "parse url", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	if err := c.wait(ctx, operation); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrInvalidInput, "tmdb", operation, "build request", err)
	}

	resp, latency, err := c.do(req)
	if err != nil {
		return services.Wrap(services.ErrUpstreamUnavailable, "tmdb", operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return services.Wrap(services.ErrUpstreamUnavailable, "tmdb", operation, fmt.Sprintf("latency=%v", latency), &StatusError{Operation: operation, StatusCode: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return services.Wrap(services.ErrMalformedPayload, "tmdb", operation, "decode response", err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context, operation string) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return services.Wrap(services.ErrUpstreamUnavailable, "tmdb", operation, "rate limit wait", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, time.Duration, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	c.logger.Debug("tmdb request",
		logging.String("path", req.URL.Path),
		logging.Duration("latency", latency),
		logging.Bool("ok", err == nil),
	)
	return resp, latency, err
}

// IsStatus reports whether err carries a TMDB response with the given status code.
func IsStatus(err error, status int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == status
}
