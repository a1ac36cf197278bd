// Package browse is the headless view model of the movie search page.
package browse

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vmunix/sparkred/internal/auth"
	"github.com/vmunix/sparkred/internal/cache"
	"github.com/vmunix/sparkred/internal/catalog"
	"github.com/vmunix/sparkred/internal/client"
	"github.com/vmunix/sparkred/internal/debounce"
)

// Fetcher runs a movie search. Results are expected in relevance order.
type Fetcher interface {
	Search(ctx context.Context, query string, key catalog.SortKey) ([]catalog.Summary, error)
}

// ErrorKind classifies a failed search for display.
type ErrorKind string

const (
	ErrorNone        ErrorKind = ""
	ErrorUnavailable ErrorKind = "unavailable" // retryable
	ErrorConfig      ErrorKind = "config"
	ErrorAuth        ErrorKind = "auth"
)

// State is a snapshot of the page.
type State struct {
	Query    string
	Sort     catalog.SortKey
	Results  []catalog.Summary
	Loading  bool
	Err      error
	Kind     ErrorKind
	Retries  int
	Searched string // query the current results belong to
}

// Session tracks one search page. Typed queries are debounced; responses to
// superseded requests are dropped.
type Session struct {
	fetcher  Fetcher
	cache    *cache.Cache[string, []catalog.Summary]
	debounce *debounce.Debouncer
	gen      debounce.Generation
	log      *slog.Logger
	onChange func(State)

	mu    sync.Mutex
	state State
	raw   []catalog.Summary
}

// Option configures a Session.
type Option func(*Session)

// WithDelay sets the debounce delay for typed queries.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		s.debounce = debounce.New(d)
	}
}

// WithCache shares a search cache between sessions.
func WithCache(c *cache.Cache[string, []catalog.Summary]) Option {
	return func(s *Session) {
		s.cache = c
	}
}

// WithOnChange registers a callback invoked with every new state.
// It is called without the session lock held.
func WithOnChange(fn func(State)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// WithLogger sets the session logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// New creates a session over fetcher.
func New(fetcher Fetcher, opts ...Option) *Session {
	s := &Session{
		fetcher:  fetcher,
		debounce: debounce.New(debounce.DefaultDelay),
		log:      slog.Default(),
		state:    State{Sort: catalog.SortRelevance},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New[string, []catalog.Summary](cache.SearchTTL, cache.WithName("browse"))
	}
	return s
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Type records a keystroke. The search runs once typing pauses.
func (s *Session) Type(ctx context.Context, query string) {
	s.update(func(st *State) { st.Query = query })

	if strings.TrimSpace(query) == "" {
		s.debounce.Stop()
		return
	}
	s.debounce.Trigger(func() {
		s.fetch(ctx, query)
	})
}

// Submit searches for query immediately and returns the resulting state.
func (s *Session) Submit(ctx context.Context, query string) State {
	s.debounce.Stop()
	s.update(func(st *State) { st.Query = query })
	if strings.TrimSpace(query) == "" {
		return s.State()
	}
	s.fetch(ctx, query)
	return s.State()
}

// Retry repeats the last failed search.
func (s *Session) Retry(ctx context.Context) State {
	s.mu.Lock()
	query := s.state.Query
	failed := s.state.Err != nil
	if failed {
		s.state.Retries++
	}
	s.mu.Unlock()

	if !failed || strings.TrimSpace(query) == "" {
		return s.State()
	}
	s.fetch(ctx, query)
	return s.State()
}

// SetSort reorders the current results without fetching.
func (s *Session) SetSort(key catalog.SortKey) {
	s.update(func(st *State) {
		st.Sort = key
		st.Results = catalog.Sort(s.raw, key)
	})
}

// ClearQuery empties the search box, drops the cached results for the
// previous query and discards any in-flight response.
func (s *Session) ClearQuery() {
	s.debounce.Stop()
	s.gen.Next()

	s.mu.Lock()
	if s.state.Searched != "" {
		s.cache.Delete(s.state.Searched)
	}
	s.mu.Unlock()

	s.update(func(st *State) {
		s.raw = nil
		st.Query = ""
		st.Searched = ""
		st.Results = nil
		st.Loading = false
		st.Err = nil
		st.Kind = ErrorNone
		st.Retries = 0
	})
}

// Close cancels any pending debounced search.
func (s *Session) Close() {
	s.debounce.Stop()
}

func (s *Session) fetch(ctx context.Context, query string) {
	tok := s.gen.Next()

	if results, ok := s.cache.Get(query); ok {
		s.log.Debug("browse cache hit", "query", query)
		s.apply(tok, query, results, nil)
		return
	}

	// A newer request may have been applied since tok was issued.
	s.mu.Lock()
	if !s.gen.Current(tok) {
		s.mu.Unlock()
		s.log.Debug("skipping superseded search", "query", query)
		return
	}
	s.state.Loading = true
	s.state.Err = nil
	s.state.Kind = ErrorNone
	snap := s.snapshot()
	s.mu.Unlock()
	s.notify(snap)

	results, err := s.fetcher.Search(ctx, query, catalog.SortRelevance)
	if err == nil {
		s.cache.Set(query, results)
	}
	s.apply(tok, query, results, err)
}

func (s *Session) apply(tok debounce.Token, query string, results []catalog.Summary, err error) {
	s.mu.Lock()
	if !s.gen.Current(tok) {
		s.mu.Unlock()
		s.log.Debug("discarding stale response", "query", query)
		return
	}

	st := &s.state
	st.Loading = false
	st.Searched = query
	if err != nil {
		s.raw = nil
		st.Results = nil
		st.Err = err
		st.Kind = kindOf(err)
	} else {
		s.raw = results
		st.Results = catalog.Sort(results, st.Sort)
		st.Err = nil
		st.Kind = ErrorNone
		st.Retries = 0
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) notify(st State) {
	if s.onChange != nil {
		s.onChange(st)
	}
}

func (s *Session) snapshot() State {
	st := s.state
	if st.Results != nil {
		st.Results = append([]catalog.Summary(nil), st.Results...)
	}
	return st
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, client.ErrConfig), catalog.IsConfigError(err):
		return ErrorConfig
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, auth.ErrSignInRequired):
		return ErrorAuth
	default:
		return ErrorUnavailable
	}
}
