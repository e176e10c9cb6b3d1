// Package cache is the read-through collection cache that sits in front
// of the Postgres load paths. Entries live for a fixed TTL; every
// successful write invalidates its collection synchronously so reads in
// the same session stay consistent.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyinside/quizboard-backend/internal/config"
)

// Cache state errors. Both mean "go to the database", not "fail the request".
var (
	ErrNotFound     = errors.New("cache entry not found")
	ErrNotAvailable = errors.New("cache not available")
)

// Store caches JSON-encoded collection snapshots in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a collection cache with the given TTL.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Get retrieves and unmarshals a cached collection into dest.
func (s *Store) Get(ctx context.Context, collection string, dest interface{}) error {
	if s.rdb == nil {
		return ErrNotAvailable
	}

	data, err := s.rdb.Get(ctx, config.CacheKey.CollectionKey(collection)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("cache get %s: %w", collection, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal %s: %w", collection, err)
	}
	return nil
}

// Set marshals and stores a collection snapshot with the fixed TTL.
// A nil client degrades to a no-op so the app keeps working without Redis.
func (s *Store) Set(ctx context.Context, collection string, value interface{}) error {
	if s.rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", collection, err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.CollectionKey(collection), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", collection, err)
	}
	return nil
}

// Invalidate drops the cached snapshots for the given collections.
func (s *Store) Invalidate(ctx context.Context, collections ...string) error {
	if s.rdb == nil || len(collections) == 0 {
		return nil
	}

	keys := make([]string, len(collections))
	for i, c := range collections {
		keys[i] = config.CacheKey.CollectionKey(c)
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
