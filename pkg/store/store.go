// Package store keeps the latest fetched snapshot of one entity collection for
// one view.
//
// A Store is only a cache of what the backend last returned. Loads are
// sequenced: starting a new load cancels the previous one and a result that
// arrives after a newer load started is dropped with ErrSuperseded.
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/marshallshelly/stockroom/pkg/inventory"
)

// Loader fetches a collection for a filter.
type Loader[T any] func(ctx context.Context, filter inventory.Filter) ([]T, error)

// Store holds one collection snapshot.
type Store[T any] struct {
	name   string
	load   Loader[T]
	logger *slog.Logger
	seq    Sequencer
	now    func() time.Time

	mu       sync.RWMutex
	items    []T
	filter   inventory.Filter
	loaded   bool
	stale    bool
	loadedAt time.Time
	lastErr  error
}

// New creates an empty store. A nil logger uses slog.Default.
func New[T any](name string, load Loader[T], logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		name:   name,
		load:   load,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the store's name as used in logs.
func (s *Store[T]) Name() string {
	return s.name
}

// Load fetches the collection for filter and replaces the snapshot.
//
// On failure the previous snapshot is kept and returned alongside the error.
// If a newer Load started meanwhile, the result is discarded and
// ErrSuperseded is returned.
func (s *Store[T]) Load(ctx context.Context, filter inventory.Filter) ([]T, error) {
	ctx, ticket, done := s.seq.Next(ctx)
	defer done()

	items, err := s.load(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ticket.Current() {
		s.logger.Debug("discarding superseded load", "store", s.name, "category", filter.CategoryID)
		return nil, ErrSuperseded
	}

	if err != nil {
		s.lastErr = err
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("load failed, keeping previous snapshot", "store", s.name, "error", err)
		}
		return slices.Clone(s.items), err
	}

	if items == nil {
		items = []T{}
	}
	s.items = slices.Clone(items)
	s.filter = filter
	s.loaded = true
	s.stale = false
	s.loadedAt = s.now()
	s.lastErr = nil

	s.logger.Debug("store loaded", "store", s.name, "count", len(items), "category", filter.CategoryID)
	return slices.Clone(s.items), nil
}

// Refresh reloads with the filter of the current snapshot.
func (s *Store[T]) Refresh(ctx context.Context) ([]T, error) {
	return s.Load(ctx, s.Filter())
}

// Items returns a copy of the snapshot. It is empty, not nil, before the
// first successful load.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.items == nil {
		return []T{}
	}
	return slices.Clone(s.items)
}

// Filter returns the filter of the current snapshot.
func (s *Store[T]) Filter() inventory.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Invalidate marks the snapshot as out of date after a mutation.
func (s *Store[T]) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Stale reports whether the snapshot needs a reload.
func (s *Store[T]) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loaded || s.stale
}

// LoadedAt returns when the snapshot was last replaced.
func (s *Store[T]) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Err returns the error of the last load, or nil if it succeeded.
func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Cancel aborts any load in flight.
func (s *Store[T]) Cancel() {
	s.seq.Cancel()
}
