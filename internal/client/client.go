// Package client is the HTTP client for the sparkredd API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/sparkred/internal/catalog"
)

var (
	// ErrNotFound is returned when the requested movie does not exist.
	ErrNotFound = errors.New("movie not found")

	// ErrConfig is returned when the server is missing its upstream credential.
	ErrConfig = errors.New("server misconfigured")

	// ErrUnauthorized is returned when the server requires a valid session.
	ErrUnauthorized = errors.New("session rejected by server")

	// ErrInvalidRequest is returned for requests the server refused as malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnavailable is returned for every other failure.
	ErrUnavailable = errors.New("movie service unavailable")
)

// Error is a failure reported by the server.
type Error struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (HTTP %d)", e.kind, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.kind }

// Retryable reports whether retrying the same request may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// TokenSource returns the bearer token to send, or an error if no session is available.
type TokenSource func(ctx context.Context) (string, error)

// Status is the server's health report.
type Status struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	TMDB    bool   `json:"tmdb"`
	Auth    bool   `json:"auth"`
}

// Client wraps HTTP calls to the sparkredd server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sends a bearer token with every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

// New creates a client for the server at serverURL.
func New(serverURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns the abbreviated records matching query, ordered by key.
func (c *Client) Search(ctx context.Context, query string, key catalog.SortKey) ([]catalog.Summary, error) {
	params := url.Values{}
	params.Set("query", query)
	if key != "" && key != catalog.SortRelevance {
		params.Set("sort", string(key))
	}

	var movies []catalog.Summary
	if err := c.get(ctx, "/api/movies?"+params.Encode(), &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []catalog.Summary{}
	}
	return movies, nil
}

// Movie returns the full record for id.
func (c *Client) Movie(ctx context.Context, id int64) (*catalog.Movie, error) {
	var movie catalog.Movie
	if err := c.get(ctx, "/api/movies/"+strconv.FormatInt(id, 10), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Status reports server health.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.get(ctx, "/api/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return serverError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func serverError(status int, body []byte) *Error {
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	_ = json.Unmarshal(body, &payload)

	e := &Error{Status: status, Code: payload.Code, Message: payload.Error}
	switch {
	case payload.Code == "NOT_FOUND" || status == http.StatusNotFound:
		e.kind = ErrNotFound
	case payload.Code == "CONFIG_ERROR":
		e.kind = ErrConfig
	case status == http.StatusUnauthorized:
		e.kind = ErrUnauthorized
	case status == http.StatusBadRequest:
		e.kind = ErrInvalidRequest
	default:
		e.kind = ErrUnavailable
	}
	return e
}
