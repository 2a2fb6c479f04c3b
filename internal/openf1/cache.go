package openf1

import (
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// ResponseCache keeps raw response bodies for endpoints whose data does not
// change during a session, keyed by request URL.
type ResponseCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewResponseCache creates a cache whose entries live for ttl. A zero ttl
// yields a nil cache, which never stores anything.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		return nil
	}
	return &ResponseCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get returns the cached body for key.
func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	if v, found := rc.cache.Get(key); found {
		if body, ok := v.([]byte); ok {
			rc.hitCount.Add(1)
			return body, true
		}
	}
	rc.missCount.Add(1)
	return nil, false
}

// Set stores body under key.
func (rc *ResponseCache) Set(key string, body []byte) {
	if rc == nil {
		return
	}
	rc.cache.Set(key, body, rc.ttl)
}

// Stats returns hit and miss counts.
func (rc *ResponseCache) Stats() (hits, misses uint64) {
	if rc == nil {
		return 0, 0
	}
	return rc.hitCount.Load(), rc.missCount.Load()
}
