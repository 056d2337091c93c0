package budget

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// CachedStub is the memoized result of reading and stub-extracting one
// file: its raw text, tier-1 stub text, and tier-1 token count.
type CachedStub struct {
	RawText     string
	Tier1       string
	Tier1Tokens int
}

// StubCache is the concurrent stub cache the loader consults before
// reading a file from disk. A duplicate insert is idempotent: the
// allocator never writes two different values for the same key.
type StubCache struct {
	mu      sync.RWMutex
	entries map[uint64]CachedStub
}

// NewStubCache returns an empty cache.
func NewStubCache() *StubCache {
	return &StubCache{entries: map[uint64]CachedStub{}}
}

// cacheKey hashes an absolute path into the cache's lookup key.
func cacheKey(absPath string) uint64 {
	return xxhash.Sum64String(absPath)
}

// Get returns the cached stub for absPath, if present.
func (c *StubCache) Get(absPath string) (CachedStub, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[cacheKey(absPath)]
	return v, ok
}

// Put inserts or idempotently overwrites the cached stub for absPath.
func (c *StubCache) Put(absPath string, stub CachedStub) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(absPath)] = stub
}
