package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/sparkred/internal/auth"
	"github.com/vmunix/sparkred/internal/browse"
	"github.com/vmunix/sparkred/internal/cache"
	"github.com/vmunix/sparkred/internal/catalog"
	"github.com/vmunix/sparkred/internal/client"
	"github.com/vmunix/sparkred/internal/config"
	"github.com/vmunix/sparkred/internal/favorites"
	"github.com/vmunix/sparkred/internal/storage"
)

// app holds everything a command needs. It is built per invocation and
// closed when the command returns.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	store     storage.Storage
	sessions  *auth.Manager // nil when no identity provider is configured
	favorites *favorites.Store
	api       *client.Client
	searches  *cache.Cache[string, []catalog.Summary]
	out       io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()

	cfg, err := loadClientConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if serverURL != "" {
		cfg.Client.ServerURL = serverURL
	}

	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Client.LogLevel),
	}))

	store, err := storage.Open(storage.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path})
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		searches: cache.New[string, []catalog.Summary](cache.SearchTTL, cache.WithName("client")),
		out:      cmd.OutOrStdout(),
	}

	var opts []client.Option
	if cfg.Auth.Enabled() {
		provider := auth.NewProvider(cfg.Auth.URL, cfg.Auth.AnonKey)
		a.sessions = auth.NewManager(provider, store, log.With("component", "auth"))
		if err := a.sessions.Start(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		opts = append(opts, client.WithTokenSource(a.token))
	}
	a.api = client.New(cfg.Client.ServerURL, opts...)
	a.favorites = favorites.New(ctx, favorites.NewStorageRepository(store), log.With("component", "favorites"))

	return a, nil
}

func (a *app) Close() error {
	if a.sessions != nil {
		_ = a.sessions.Close()
	}
	return a.store.Close()
}

// loadClientConfig loads --config, or the discovered config, or defaults.
func loadClientConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func (a *app) token(ctx context.Context) (string, error) {
	s, err := a.sessions.Require(ctx)
	if err != nil {
		return "", signInHint(err)
	}
	return s.AccessToken, nil
}

// requireSession fails gated commands early when sign-in is configured but
// there is no usable session.
func (a *app) requireSession(ctx context.Context) error {
	if a.sessions == nil {
		return nil
	}
	_, err := a.token(ctx)
	return err
}

func signInHint(err error) error {
	if errors.Is(err, auth.ErrSignInRequired) {
		return fmt.Errorf("%w: run 'sparkred login'", err)
	}
	return err
}

// explain adds a user-facing hint to API failures.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrConfig):
		return fmt.Errorf("%w (set tmdb.api_key on the server)", err)
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w: run 'sparkred login'", err)
	case client.Retryable(err):
		return fmt.Errorf("%w (try again)", err)
	default:
		return err
	}
}

func (a *app) newSession(opts ...browse.Option) *browse.Session {
	opts = append([]browse.Option{
		browse.WithCache(a.searches),
		browse.WithLogger(a.log.With("component", "browse")),
	}, opts...)
	return browse.New(a.api, opts...)
}

// resolveID accepts a numeric movie id or a title, which is resolved to the
// closest search result.
func (a *app) resolveID(ctx context.Context, arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return id, nil
	}

	st := a.newSession().Submit(ctx, arg)
	if st.Err != nil {
		return 0, explain(st.Err)
	}
	best, score, ok := catalog.BestMatch(arg, st.Results)
	if !ok {
		return 0, fmt.Errorf("%w: nothing close to %q", client.ErrNotFound, arg)
	}
	a.log.Debug("resolved title", "query", arg, "tmdb_id", best.ID, "title", best.Title, "score", score)
	return best.ID, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

