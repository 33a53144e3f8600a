package store

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinybakery/pos/internal/domain"
)

// flakyStore fails every call with a fixed error until healed.
type flakyStore struct {
	err   error
	calls int
}

func (f *flakyStore) Load(context.Context) (*domain.State, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return domain.SeedState(), nil
}

func (f *flakyStore) Save(context.Context, *domain.State) error {
	f.calls++
	return f.err
}

func TestBreakerStore_PassesThroughHealthyCalls(t *testing.T) {
	inner := &flakyStore{}
	s := NewBreakerStore(inner)

	state, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Inventory, 4)

	require.NoError(t, s.Save(context.Background(), state))
}

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyStore{err: errors.New("backend down")}
	s := NewBreakerStore(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.Error(t, s.Save(ctx, domain.SeedState()))
	}
	callsBeforeOpen := inner.calls

	// The circuit is now open: calls fail fast without touching the backend.
	err := s.Save(ctx, domain.SeedState())
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, callsBeforeOpen, inner.calls)
}

func TestBreakerStore_NotFoundDoesNotTrip(t *testing.T) {
	inner := &flakyStore{err: ErrNotFound}
	s := NewBreakerStore(inner)
	ctx := context.Background()

	// A missing record on first run is expected; the circuit must stay closed
	// no matter how often it happens.
	for i := 0; i < 10; i++ {
		_, err := s.Load(ctx)
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 10, inner.calls)
}
