// Package catalog resolves movie searches and details against the upstream
// movie database, normalizing and caching the results.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vmunix/sparkred/internal/cache"
	"github.com/vmunix/sparkred/internal/metrics"
	"github.com/vmunix/sparkred/internal/tmdb"
)

// DefaultQuery is searched when the caller gives no query.
const DefaultQuery = "Action"

// DefaultDetailTTL is how long full movie records stay cached.
const DefaultDetailTTL = time.Hour

// Gateway is the upstream movie database.
type Gateway interface {
	SearchMovies(ctx context.Context, query string) ([]tmdb.SearchResult, error)
	GetMovie(ctx context.Context, tmdbID int64) (*tmdb.Movie, error)
}

// Service answers search and detail lookups.
type Service struct {
	gateway Gateway
	log     *slog.Logger

	searches *cache.Cache[string, []Summary]
	details  *cache.Cache[int64, *Movie]
	flight   singleflight.Group
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	detailTTL time.Duration
	now       func() time.Time
}

// WithDetailTTL sets how long full movie records are cached.
func WithDetailTTL(ttl time.Duration) Option {
	return func(o *serviceOptions) {
		o.detailTTL = ttl
	}
}

// WithClock replaces the time source of the caches (for testing).
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// NewService creates a catalog service over gateway.
func NewService(gateway Gateway, log *slog.Logger, opts ...Option) *Service {
	o := serviceOptions{detailTTL: DefaultDetailTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		gateway:  gateway,
		log:      log,
		searches: cache.New[string, []Summary](cache.SearchTTL, cache.WithClock(o.now), cache.WithName("search")),
		details:  cache.New[int64, *Movie](o.detailTTL, cache.WithClock(o.now), cache.WithName("movie")),
	}
}

// Search returns abbreviated records for query ordered by key.
// An empty query searches DefaultQuery.
func (s *Service) Search(ctx context.Context, query string, key SortKey) ([]Summary, error) {
	if query == "" {
		query = DefaultQuery
	}

	// Check cache first
	if results, ok := s.searches.Get(query); ok {
		s.log.Debug("cache hit for search", "query", query, "results", len(results))
		return Sort(results, key), nil
	}

	v, err, shared := s.do(ctx, "search:"+query, func(ctx context.Context) (any, error) {
		s.log.Debug("cache miss for search, calling API", "query", query)
		raw, err := s.gateway.SearchMovies(ctx, query)
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues("search", "error").Inc()
			return nil, classify(err)
		}
		metrics.UpstreamRequests.WithLabelValues("search", "ok").Inc()

		results := make([]Summary, 0, len(raw))
		for _, r := range raw {
			results = append(results, summaryFromResult(r))
		}
		s.searches.Set(query, results)
		return results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if shared {
		s.log.Debug("joined in-flight search", "query", query)
	}
	return Sort(v.([]Summary), key), nil
}

// Movie returns the full record for id.
func (s *Service) Movie(ctx context.Context, id int64) (*Movie, error) {
	if movie, ok := s.details.Get(id); ok {
		s.log.Debug("cache hit for movie", "tmdb_id", id, "title", movie.Title)
		return movie, nil
	}

	v, err, _ := s.do(ctx, "movie:"+strconv.FormatInt(id, 10), func(ctx context.Context) (any, error) {
		s.log.Debug("cache miss for movie, calling API", "tmdb_id", id)
		raw, err := s.gateway.GetMovie(ctx, id)
		if err != nil {
			result := "error"
			if errors.Is(err, tmdb.ErrNotFound) {
				result = "not_found"
			}
			metrics.UpstreamRequests.WithLabelValues("movie", result).Inc()
			return nil, classify(err)
		}
		metrics.UpstreamRequests.WithLabelValues("movie", "ok").Inc()

		movie := movieFromDetail(raw)
		s.details.Set(id, movie)
		return movie, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return v.(*Movie), nil
}

// do runs fn once per key for all concurrent callers. The upstream call is
// detached from the caller that started it; each caller still stops waiting
// when its own context ends. The gateway's HTTP timeout bounds the call.
func (s *Service) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error, bool) {
	detached := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err, r.Shared
	case <-ctx.Done():
		return nil, ctx.Err(), false
	}
}

// Resolve finds the movie whose title best matches title.
func (s *Service) Resolve(ctx context.Context, title string) (*Summary, error) {
	results, err := s.Search(ctx, title, SortRelevance)
	if err != nil {
		return nil, err
	}
	best, score, ok := BestMatch(title, results)
	if !ok {
		return nil, fmt.Errorf("%w: no title close to %q", ErrNotFound, title)
	}
	s.log.Debug("resolved title", "query", title, "tmdb_id", best.ID, "title", best.Title, "score", score)
	return &best, nil
}

// Prune drops expired cache entries and returns how many were removed.
func (s *Service) Prune() int {
	return s.searches.Prune() + s.details.Prune()
}

// ClearCache drops every cached search and movie.
func (s *Service) ClearCache() {
	s.searches.Clear()
	s.details.Clear()
}

// classify maps gateway errors onto the catalog's error kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, tmdb.ErrMissingAPIKey):
		return ErrMissingCredential
	case errors.Is(err, tmdb.ErrUnauthorized):
		return ErrInvalidCredential
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
