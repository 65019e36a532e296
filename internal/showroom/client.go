package showroom

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/readyverse/rvshowroom/internal/metrics"
)

// Fetcher defines the showroom read operations. It is implemented by
// *Client and can be used for testing.
type Fetcher interface {
	FetchShowrooms(ctx context.Context) ([]Summary, error)
	FetchShowroom(ctx context.Context, id string) (Details, error)
}

// DetailsGetter is the asynchronous lookup used by the deep-link dispatcher.
type DetailsGetter interface {
	GetShowroomByID(ctx context.Context, id string, onComplete func(Details, error))
}

// Ensure Client implements both interfaces at compile time.
var (
	_ Fetcher       = (*Client)(nil)
	_ DetailsGetter = (*Client)(nil)
)

const (
	gamesPath        = "/api/showroom/games"
	defaultUserAgent = "rvshowroom/0.1"
	defaultTimeout   = 10 * time.Second
)

// Options configure a Client.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration // ignored when HTTPClient is set
	HTTPClient *http.Client
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
}

// Client talks to the showroom HTTP API.
type Client struct {
	baseURL   string // empty when unconfigured
	http      *http.Client
	userAgent string
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// NewClient builds a Client. An empty BaseURL is accepted; every request
// then fails with ErrMissingBaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := normalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: userAgent,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "showroom-client"),
	}, nil
}

// BaseURL returns the normalized base URL, or "" when unconfigured.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListShowrooms fetches the showroom list and reports the result to
// onComplete exactly once. Without a base URL onComplete runs before
// ListShowrooms returns; otherwise it runs on a separate goroutine.
func (c *Client) ListShowrooms(ctx context.Context, onComplete func([]Summary, error)) {
	if c.baseURL == "" {
		onComplete(nil, ErrMissingBaseURL)
		return
	}
	go func() {
		onComplete(c.FetchShowrooms(ctx))
	}()
}

// GetShowroomByID fetches one showroom and reports the result to onComplete
// exactly once, with the same synchronicity rules as ListShowrooms.
func (c *Client) GetShowroomByID(ctx context.Context, id string, onComplete func(Details, error)) {
	if c.baseURL == "" {
		onComplete(Details{}, ErrMissingBaseURL)
		return
	}
	go func() {
		onComplete(c.FetchShowroom(ctx, id))
	}()
}

// FetchShowrooms retrieves every published showroom.
func (c *Client) FetchShowrooms(ctx context.Context) ([]Summary, error) {
	return c.fetchList(ctx, "list", gamesPath, nil)
}

// FetchShowroom retrieves the details of one showroom.
func (c *Client) FetchShowroom(ctx context.Context, id string) (details Details, err error) {
	started := time.Now()
	defer func() { c.record("get", started, err) }()

	body, err := c.get(ctx, gamesPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return Details{}, err
	}
	return ParseDetails(body)
}

// FetchByGenre retrieves the showrooms of one genre.
func (c *Client) FetchByGenre(ctx context.Context, genre string) ([]Summary, error) {
	return c.fetchList(ctx, "genre", gamesPath+"/genre/"+url.PathEscape(genre), nil)
}

// FetchByTrack retrieves the showrooms on one publishing track.
func (c *Client) FetchByTrack(ctx context.Context, track string) ([]Summary, error) {
	return c.fetchList(ctx, "track", gamesPath+"/track/"+url.PathEscape(track), nil)
}

// FetchFeatured retrieves the featured showrooms.
func (c *Client) FetchFeatured(ctx context.Context) ([]Summary, error) {
	return c.fetchList(ctx, "featured", gamesPath+"/featured", nil)
}

// Search retrieves showrooms whose name or description matches query.
func (c *Client) Search(ctx context.Context, query string) ([]Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return c.fetchList(ctx, "search", gamesPath+"/search", url.Values{"query": {query}})
}

func (c *Client) fetchList(ctx context.Context, endpoint, path string, query url.Values) (list []Summary, err error) {
	started := time.Now()
	defer func() { c.record(endpoint, started, err) }()

	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return ParseSummaryList(body)
}

// get performs the request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if c.baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Path: path}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	return body, nil
}

func (c *Client) record(endpoint string, started time.Time, err error) {
	if c == nil {
		return
	}
	elapsed := time.Since(started)
	kind := Classify(err)
	c.metrics.ObserveRequest(endpoint, kind, elapsed)
	if err != nil {
		c.logger.Warn("showroom request failed", "endpoint", endpoint, "kind", kind, "error", err)
		return
	}
	c.logger.Debug("showroom request completed", "endpoint", endpoint, "elapsed", elapsed)
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", nil
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse api base url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}
