package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CollectionKey returns the cache key for a cached collection snapshot
// (problems, solutions).
func (r *CacheKeyStruct) CollectionKey(collection string) string {
	return fmt.Sprintf("collection:%s", collection)
}

// SessionStateKey returns the cache key for a browser session's page state.
func (r *CacheKeyStruct) SessionStateKey(sessionID string) string {
	return fmt.Sprintf("session:%s:state", sessionID)
}

var CacheKey = NewCacheKeyStruct()
