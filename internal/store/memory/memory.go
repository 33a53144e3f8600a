// Package memory provides an in-memory Store for tests and single-process
// development runs.
package memory

import (
	"context"
	"sync"

	"github.com/tinybakery/pos/internal/domain"
	"github.com/tinybakery/pos/internal/store"
)

// Store holds the state record in memory. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state *domain.State
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Load returns a deep copy of the stored state, or store.ErrNotFound if
// nothing has been saved.
func (s *Store) Load(_ context.Context) (*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, store.ErrNotFound
	}
	return s.state.Clone(), nil
}

// Save stores a deep copy of the state.
func (s *Store) Save(_ context.Context, state *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	return nil
}
