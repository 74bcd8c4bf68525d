// Package store keeps a local mirror of one remote table and the mutation
// API over it. Local state is a cache of last-known-remote-state, never a
// source of truth: every confirmed write is followed by a full re-read.
package store

import (
	"context"
	"sync"

	"dashflow-service/internal/dashboard/remote"

	"go.uber.org/zap"
)

// Validator checks a create or update payload before it goes near the
// network. Validation failures are reported synchronously to the caller.
type Validator func(data any) error

type Store[T any] struct {
	name     string
	table    remote.Table[T]
	validate Validator
	logger   *zap.Logger

	mu      sync.RWMutex
	items   []T
	loading bool
	lastErr error
}

func New[T any](name string, table remote.Table[T], validate Validator, logger *zap.Logger) *Store[T] {
	return &Store[T]{
		name:     name,
		table:    table,
		validate: validate,
		logger:   logger,
	}
}

// List replaces the whole local collection from the remote table. On failure
// the previous collection stays available and the error is recorded, never
// an empty state.
func (s *Store[T]) List(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.table.Select(ctx)
	if err != nil {
		s.logger.Error("list failed, keeping previous collection",
			zap.String("store", s.name),
			zap.Error(err))
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.items = rows
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Create validates, inserts remotely, then re-reads the collection. The new
// record is never appended speculatively: its id is server-assigned.
func (s *Store[T]) Create(ctx context.Context, data any) error {
	if s.validate != nil {
		if err := s.validate(data); err != nil {
			return err
		}
	}

	if err := s.table.Insert(ctx, data); err != nil {
		return err
	}
	return s.List(ctx)
}

// Update patches one row remotely, then re-reads. A failed update leaves
// local state untouched.
func (s *Store[T]) Update(ctx context.Context, id int64, patch any) error {
	if err := s.table.Update(ctx, id, patch); err != nil {
		return err
	}
	return s.List(ctx)
}

// Delete removes one row remotely, then re-reads. A failed delete leaves the
// entity in place: it must not silently disappear.
func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	if err := s.table.Delete(ctx, id); err != nil {
		return err
	}
	return s.List(ctx)
}

// Items returns a snapshot copy of the collection.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a list is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error of the last failed list, nil after a successful one.
func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store[T]) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
