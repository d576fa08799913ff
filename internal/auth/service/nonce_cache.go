package service

import (
	"strings"
	"sync"
	"time"
)

// sweepInterval is the minimum time between two sweeps of expired nonces.
const sweepInterval = time.Minute

type nonceCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	nonces    map[string]time.Time
	lastSweep time.Time
}

// NewNonceCache creates an in-memory nonce cache. Entries live for ttl and are swept
// lazily on insertion, so the cache needs no background goroutine.
// Pass twice the signature window as ttl: a timestamp may be ahead of the server clock.
func NewNonceCache(ttl time.Duration) NonceCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &nonceCache{
		ttl:    ttl,
		nonces: map[string]time.Time{},
	}
}

// Seen records nonce and reports whether it was still remembered.
func (c *nonceCache) Seen(nonce string, now time.Time) bool {
	nonce = strings.TrimSpace(nonce)
	if nonce == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > sweepInterval {
		c.sweepExpiredLocked(now)
		c.lastSweep = now
	}

	if expiresAt, ok := c.nonces[nonce]; ok && expiresAt.After(now) {
		return true
	}

	c.nonces[nonce] = now.Add(c.ttl)
	return false
}

func (c *nonceCache) sweepExpiredLocked(now time.Time) {
	for nonce, expiresAt := range c.nonces {
		if !expiresAt.After(now) {
			delete(c.nonces, nonce)
		}
	}
}

// size returns the number of remembered nonces.
func (c *nonceCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nonces)
}
