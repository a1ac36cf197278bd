package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmunix/sparkred/internal/storage"
)

// StorageKey is the fixed key the favorites list is persisted under.
const StorageKey = "spark-red-favorites"

// ErrCorrupt indicates the persisted favorites could not be decoded.
var ErrCorrupt = errors.New("corrupt favorites record")

// Repository persists the full favorites list.
type Repository interface {
	// Load returns the persisted ids in insertion order, or nil when nothing is stored.
	Load(ctx context.Context) ([]int64, error)
	// Save replaces the persisted list.
	Save(ctx context.Context, ids []int64) error
	// Delete removes the persisted record entirely.
	Delete(ctx context.Context) error
}

// StorageRepository keeps the favorites as a JSON array of integers in a storage.Storage.
type StorageRepository struct {
	store storage.Storage
	key   string
}

// NewStorageRepository creates a repository using StorageKey.
func NewStorageRepository(s storage.Storage) *StorageRepository {
	return &StorageRepository{store: s, key: StorageKey}
}

func (r *StorageRepository) Load(ctx context.Context) ([]int64, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return ids, nil
}

func (r *StorageRepository) Save(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

func (r *StorageRepository) Delete(ctx context.Context) error {
	if err := r.store.Remove(ctx, r.key); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	return nil
}
