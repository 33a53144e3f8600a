package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinybakery/pos/internal/domain"
	"github.com/tinybakery/pos/internal/store"
	"github.com/tinybakery/pos/pkg/database"
)

func TestLoad_ReturnsDecodedState(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	state := domain.SeedState()
	state.Revenue = 27
	data, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data").
		WithArgs(stateRowID).
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

	s := New(mock)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 27.0, got.Revenue, 1e-9)
	assert.Len(t, got.Inventory, 4)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_NoRowsIsNotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT data").
		WithArgs(stateRowID).
		WillReturnError(pgx.ErrNoRows)

	s := New(mock)
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpsertsSingleRow(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	state := domain.SeedState()
	data, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO pos_state").
		WithArgs(stateRowID, data).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s := New(mock)
	require.NoError(t, s.Save(context.Background(), state))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_ExecErrorIsWrapped(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO pos_state").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	s := New(mock)
	err = s.Save(context.Background(), domain.SeedState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert pos state")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS pos_state").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, EnsureSchema(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
