// Package redis persists the POS state record as a single JSON value in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/tinybakery/pos/internal/domain"
	"github.com/tinybakery/pos/internal/store"
	apperrors "github.com/tinybakery/pos/pkg/errors"
)

// DefaultKey is the Redis key holding the serialized state.
const DefaultKey = "bakery:pos:state"

// Store is a Redis-backed state store.
type Store struct {
	client *redis.Client
	key    string
}

// New creates a Redis-backed store. An empty key uses DefaultKey.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// Load fetches and decodes the state record.
func (s *Store) Load(ctx context.Context) (*domain.State, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "get pos state")
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, apperrors.Wrap(err, "decode pos state")
	}
	return &state, nil
}

// Save encodes and writes the state record. No TTL: the record lives until
// overwritten.
func (s *Store) Save(ctx context.Context, state *domain.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return apperrors.Wrap(err, "encode pos state")
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return apperrors.Wrap(err, "set pos state")
	}
	return nil
}
