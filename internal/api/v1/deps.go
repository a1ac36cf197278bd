package v1

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vmunix/sparkred/internal/auth"
	"github.com/vmunix/sparkred/internal/catalog"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Catalog answers movie searches and detail lookups.
type Catalog interface {
	Search(ctx context.Context, query string, key catalog.SortKey) ([]catalog.Summary, error)
	Movie(ctx context.Context, id int64) (*catalog.Movie, error)
}

// TokenVerifier validates access tokens issued by the identity provider.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Catalog Catalog

	// Optional dependencies
	Verifier TokenVerifier // nil serves movie routes without a session
	Logger   *slog.Logger

	Version        string
	TMDBConfigured bool
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.New("catalog is required")
	}
	return nil
}
