// Package postgres persists the POS state record as a single JSONB row.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/tinybakery/pos/internal/domain"
	"github.com/tinybakery/pos/internal/store"
	"github.com/tinybakery/pos/pkg/database"
	apperrors "github.com/tinybakery/pos/pkg/errors"
)

// stateRowID pins the single pos_state row.
const stateRowID = 1

// Store is a PostgreSQL-backed state store over the pos_state table.
type Store struct {
	pool database.DBTX
}

// New creates a PostgreSQL-backed store.
func New(pool database.DBTX) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the pos_state table if it does not exist.
func EnsureSchema(ctx context.Context, db database.DBTX) error {
	query := `
		CREATE TABLE IF NOT EXISTS pos_state (
			id         INT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	if _, err := db.Exec(ctx, query); err != nil {
		return apperrors.Wrap(err, "create pos_state table")
	}
	return nil
}

// Load fetches and decodes the state record.
func (s *Store) Load(ctx context.Context) (*domain.State, error) {
	query := `
		SELECT data
		FROM pos_state
		WHERE id = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, stateRowID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "select pos state")
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, apperrors.Wrap(err, "decode pos state")
	}
	return &state, nil
}

// Save encodes and upserts the state record.
func (s *Store) Save(ctx context.Context, state *domain.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return apperrors.Wrap(err, "encode pos state")
	}

	query := `
		INSERT INTO pos_state (id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, stateRowID, data); err != nil {
		return apperrors.Wrap(err, "upsert pos state")
	}
	return nil
}
