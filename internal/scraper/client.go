package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// BaseURL is the scraped site's origin.
	BaseURL = "https://www.vlr.gg"
	// UserAgent mimics a desktop browser; the site serves a reduced page to
	// obvious bots.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// Timeout bounds every individual fetch; a stalled page is skipped, not
	// waited on.
	Timeout = 15 * time.Second
)

// UpstreamError reports a non-2xx response from the upstream site. A failed
// listing fetch is fatal for the whole run, and the status code travels with
// the error so callers can surface it.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream fetch failed with status %d", e.Status)
}

// Client fetches pages from the match-listing site.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client against the real site.
func NewClient() *Client {
	return NewClientWithBase(BaseURL)
}

// NewClientWithBase creates a Client against an alternate origin, used by
// tests to point at a local server.
func NewClientWithBase(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: Timeout},
		baseURL:    baseURL,
	}
}

// BaseURL returns the origin this client fetches from.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchListing fetches a team's match-listing page. Any non-2xx status is
// returned as an UpstreamError.
func (c *Client) FetchListing(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	return c.do(req)
}

// FetchDetail fetches a single match page by its site-relative path.
func (c *Client) FetchDetail(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}
