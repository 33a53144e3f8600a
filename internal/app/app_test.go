package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinybakery/pos/internal/domain"
	"github.com/tinybakery/pos/internal/store"
	"github.com/tinybakery/pos/pkg/logger"
)

// stubStore returns a fixed state or error from Load.
type stubStore struct {
	state   *domain.State
	loadErr error
}

func (s *stubStore) Load(context.Context) (*domain.State, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.state, nil
}

func (s *stubStore) Save(context.Context, *domain.State) error { return nil }

func testLogger() *slog.Logger {
	return logger.NewWithWriter("app-test", "error", io.Discard)
}

func TestLoadOrSeedState_AbsentRecordSeeds(t *testing.T) {
	st := &stubStore{loadErr: store.ErrNotFound}

	state := loadOrSeedState(context.Background(), st, testLogger())

	require.NotNil(t, state)
	assert.Len(t, state.Inventory, 4)
	assert.NotNil(t, state.FindProduct("cake-choc"))
}

func TestLoadOrSeedState_UnreadableRecordSeeds(t *testing.T) {
	// A corrupt record decodes with an error that is not ErrNotFound; the
	// terminal must still open on the seed catalog.
	st := &stubStore{loadErr: errors.New("decode pos state: invalid character 'x'")}

	state := loadOrSeedState(context.Background(), st, testLogger())

	require.NotNil(t, state)
	assert.Len(t, state.Inventory, 4)
	assert.Zero(t, state.Revenue)
	assert.True(t, state.Cart.IsEmpty())
}

func TestLoadOrSeedState_RestoresPersistedState(t *testing.T) {
	persisted := domain.SeedState()
	persisted.Revenue = 44
	st := &stubStore{state: persisted}

	state := loadOrSeedState(context.Background(), st, testLogger())

	require.NotNil(t, state)
	assert.InDelta(t, 44.0, state.Revenue, 1e-9)
}
