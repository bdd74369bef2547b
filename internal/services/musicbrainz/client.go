package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrRateLimited indicates MusicBrainz rejected the request for rate abuse
	ErrRateLimited = errors.New("musicbrainz rate limit exceeded")

	// ErrNoResults indicates the search matched nothing
	ErrNoResults = errors.New("no releases found")

	// ErrInvalidResponse indicates the API returned an unparseable response
	ErrInvalidResponse = errors.New("invalid response from musicbrainz")
)

// defaultUserAgent identifies the tool per the MusicBrainz API policy, which
// requires meaningful contact information in the agent string
const defaultUserAgent = "sidecut/1.0 ( https://github.com/waxworks/sidecut )"

// Config holds configuration for the MusicBrainz client
type Config struct {
	// Rate limiting: MusicBrainz allows anonymous clients 1 request/second
	RequestsPerSecond float64 // Default: 1

	// HTTP configuration
	Timeout time.Duration // Default: 10s

	// User agent override
	UserAgent string

	// Base URL (for testing)
	BaseURL string // Default: https://musicbrainz.org
}

// Client handles communication with the MusicBrainz ws/2 API
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	baseURL     string
}

// NewClient creates a new MusicBrainz API client
func NewClient(cfg Config) *Client {
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://musicbrainz.org"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		userAgent:   cfg.UserAgent,
		baseURL:     cfg.BaseURL,
	}
}

// SearchReleases searches for releases matching artist and album title.
// Returns the page of results and the total match count so callers can
// paginate.
func (c *Client) SearchReleases(ctx context.Context, artist, album string, limit, offset int) ([]Release, int, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`release:%q`, album)
	if artist != "" {
		query = fmt.Sprintf(`artist:%q AND %s`, artist, query)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("offset", fmt.Sprintf("%d", offset))

	var resp searchResponse
	if err := c.get(ctx, "/ws/2/release/?"+params.Encode(), &resp); err != nil {
		return nil, 0, err
	}

	releases := make([]Release, 0, len(resp.Releases))
	for _, w := range resp.Releases {
		releases = append(releases, w.toRelease())
	}

	if len(releases) == 0 {
		return nil, resp.Count, ErrNoResults
	}

	return releases, resp.Count, nil
}

// GetRelease fetches the full track listing for a release
func (c *Client) GetRelease(ctx context.Context, releaseID string) (*Release, error) {
	if releaseID == "" {
		return nil, fmt.Errorf("%w: empty release id", ErrInvalidResponse)
	}

	params := url.Values{}
	params.Set("inc", "recordings artists")
	params.Set("fmt", "json")

	var resp wireRelease
	if err := c.get(ctx, "/ws/2/release/"+url.PathEscape(releaseID)+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	rel := resp.toRelease()
	return &rel, nil
}

// get performs one rate-limited API request and decodes the JSON body
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("musicbrainz request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return ErrNoResults
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}
