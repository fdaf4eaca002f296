package cache

import (
	"time"
)

// CacheService is the expiring key-value store behind the fetch politeness
// gate: a present key means the target is still inside its block window.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
