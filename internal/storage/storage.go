// Package storage provides the key/value persistence medium for local client state.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Storage persists opaque values under string keys.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// Config selects and locates a storage driver.
type Config struct {
	Driver string
	Path   string
}

// Open creates the storage described by cfg.
// Parent directories of file-backed drivers are created as needed.
func Open(cfg Config) (Storage, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverBolt
	}

	if driver != DriverMemory {
		if cfg.Path == "" {
			return nil, fmt.Errorf("storage driver %q requires a path", driver)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	switch driver {
	case DriverBolt:
		return OpenBolt(cfg.Path)
	case DriverSQLite:
		return OpenSQLite(cfg.Path)
	case DriverFile:
		return OpenFile(cfg.Path)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
