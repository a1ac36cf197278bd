package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org"

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

var (
	// ErrNotFound is returned when a movie doesn't exist in TMDB.
	ErrNotFound = errors.New("movie not found")

	// ErrMissingAPIKey is returned when the client has no API key configured.
	ErrMissingAPIKey = errors.New("TMDB API key not set")

	// ErrUnauthorized is returned when TMDB rejects the configured API key.
	ErrUnauthorized = errors.New("TMDB rejected API key")
)

// APIError describes a non-success response from TMDB.
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string
	// Unsuccessful is set when the body parsed with "success": false.
	Unsuccessful bool
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("TMDB API error %d: %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("TMDB API error %d", e.HTTPStatus)
}

// NotFound reports whether the error means the requested resource does not
// exist, as opposed to TMDB failing or throttling.
func (e *APIError) NotFound() bool {
	switch {
	case e.HTTPStatus == http.StatusNotFound:
		return true
	case e.HTTPStatus == http.StatusTooManyRequests:
		return false
	case e.HTTPStatus == http.StatusOK, e.HTTPStatus >= 400 && e.HTTPStatus < 500:
		return e.Unsuccessful
	default:
		return false
	}
}

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchMovies runs a free-text movie search and returns the first page of
// results in TMDB's relevance order.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)

	var resp searchResponse
	if err := c.get(ctx, "/3/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetMovie fetches movie metadata by TMDB ID, including credits.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var movie Movie
	err := c.get(ctx, "/3/movie/"+strconv.FormatInt(tmdbID, 10), params, &movie)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, tmdbID)
		}
		return nil, err
	}
	return &movie, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	params.Set("api_key", c.apiKey)

	// Build request
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	// Execute
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Handle errors
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var status statusResponse
	_ = json.Unmarshal(body, &status)
	if resp.StatusCode != http.StatusOK || (status.Success != nil && !*status.Success) {
		return &APIError{
			HTTPStatus:   resp.StatusCode,
			Code:         status.StatusCode,
			Message:      status.StatusMessage,
			Unsuccessful: status.Success != nil && !*status.Success,
		}
	}

	// Decode
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
