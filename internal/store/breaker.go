package store

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tinybakery/pos/internal/domain"
)

// BreakerStore wraps a Store with a circuit breaker so a dead backend stops
// being hammered on every state change. Saves are best-effort anyway; once
// the circuit opens, they fail fast until the backend recovers.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[*domain.State]
}

// NewBreakerStore wraps the given store. The circuit opens after five
// consecutive failures and probes again after 30 seconds.
func NewBreakerStore(inner Store) *BreakerStore {
	settings := gobreaker.Settings{
		Name:    "pos-state-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing record is an expected first-run condition, not a
		// backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}
	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[*domain.State](settings),
	}
}

// Load delegates through the breaker.
func (s *BreakerStore) Load(ctx context.Context) (*domain.State, error) {
	return s.cb.Execute(func() (*domain.State, error) {
		return s.inner.Load(ctx)
	})
}

// Save delegates through the breaker.
func (s *BreakerStore) Save(ctx context.Context, state *domain.State) error {
	_, err := s.cb.Execute(func() (*domain.State, error) {
		return nil, s.inner.Save(ctx, state)
	})
	return err
}
