// Package store persists the single POS state record. Persistence is a
// best-effort side effect outside the transactional boundary: a failed save
// never rolls back or blocks the in-memory commit.
package store

import (
	"context"
	"errors"

	"github.com/tinybakery/pos/internal/domain"
)

// ErrNotFound is returned by Load when no state has been persisted yet.
var ErrNotFound = errors.New("pos state not found")

// Store loads and saves the full session state as one opaque record.
type Store interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, state *domain.State) error
}
