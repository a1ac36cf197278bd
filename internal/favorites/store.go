// Package favorites maintains the user's ordered set of favorite movie ids.
package favorites

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Store is an insertion-ordered set of movie ids backed by a Repository.
// Every mutation persists the full set before it becomes visible.
type Store struct {
	repo Repository
	log  *slog.Logger

	mu      sync.RWMutex
	ids     []int64
	members map[int64]struct{}
}

// New loads the persisted favorites from repo.
// A missing, unreadable or corrupt record yields an empty store.
func New(ctx context.Context, repo Repository, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{repo: repo, log: log, members: make(map[int64]struct{})}

	ids, err := repo.Load(ctx)
	if err != nil {
		log.Warn("discarding unreadable favorites", "error", err)
		return s
	}

	// Drop duplicates a hand-edited record may contain, keeping first occurrence
	for _, id := range ids {
		if _, ok := s.members[id]; ok {
			continue
		}
		s.members[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// Add inserts id. Adding an existing id leaves the set unchanged.
func (s *Store) Add(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.ids
	if _, ok := s.members[id]; !ok {
		next = append(slices.Clone(s.ids), id)
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return err
	}
	s.commit(next)
	return nil
}

// Remove deletes id. Removing an absent id leaves the set unchanged.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.ids), func(v int64) bool { return v == id })
	if err := s.repo.Save(ctx, next); err != nil {
		return err
	}
	s.commit(next)
	return nil
}

// Contains reports whether id is a favorite. It performs no I/O.
func (s *Store) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.members[id]
	return ok
}

// Clear empties the set and deletes the persisted record.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx); err != nil {
		return err
	}
	s.commit(nil)
	return nil
}

// List returns the favorites in the order they were first added.
func (s *Store) List() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Store) commit(ids []int64) {
	s.ids = ids
	s.members = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		s.members[id] = struct{}{}
	}
}
