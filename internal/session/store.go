package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyinside/quizboard-backend/internal/config"
)

// Store persists one State per session id in Redis. Session ids are the
// JTI of the session's auth token, so state vanishes with the login.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a session state store with the given idle TTL.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Get loads the session's state, returning a fresh initial state for an
// unknown session.
func (s *Store) Get(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.SessionStateKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("load session state: %w", err)
	}

	st := New()
	if err := json.Unmarshal([]byte(data), st); err != nil {
		// A corrupt entry is unrecoverable; start the session over.
		return New(), nil
	}
	return st, nil
}

// Save writes the session's state back, refreshing the TTL.
func (s *Store) Save(ctx context.Context, sessionID string, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.SessionStateKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

// Clear removes the session's state, e.g. on logout.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, config.CacheKey.SessionStateKey(sessionID)).Err()
}
