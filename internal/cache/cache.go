package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// NoExpiration stores an entry until it is deleted explicitly
const NoExpiration time.Duration = -1

// Cache defines the interface for page content caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a stable cache key from a URL
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "redsub:v1:" + hex.EncodeToString(hash[:])
}
