package catalog

import "errors"

var (
	// ErrNotFound indicates the catalog cannot resolve the requested movie.
	ErrNotFound = errors.New("movie not found")

	// ErrUnavailable indicates the catalog could not be reached or answered with
	// something unusable. Callers may retry.
	ErrUnavailable = errors.New("catalog unavailable")

	// ErrMissingCredential indicates the catalog API key is not configured.
	ErrMissingCredential = errors.New("catalog API key not set")

	// ErrInvalidCredential indicates the catalog rejected the configured API key.
	ErrInvalidCredential = errors.New("catalog API key rejected")

	// ErrInvalidSort indicates an unknown sort key.
	ErrInvalidSort = errors.New("invalid sort key")
)

// IsConfigError reports whether err is a configuration problem the user cannot
// fix by retrying.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrInvalidCredential)
}
