package suggest

import (
	"sync"
)

// queryCache keeps recent suggestion lists so every repeat keystroke skips
// the trie walk. Eviction drops the least recently touched key once the
// cache fills; the linear scan is fine at the sizes this cache runs at.
type queryCache struct {
	results map[string][]Result
	access  map[string]int64
	tick    int64
	max     int
	hits    int64
	misses  int64
	mu      sync.Mutex
}

func newQueryCache(max int) *queryCache {
	if max < 1 {
		max = 1
	}
	return &queryCache{
		results: make(map[string][]Result, max),
		access:  make(map[string]int64, max),
		max:     max,
	}
}

func (c *queryCache) get(key string) ([]Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.results[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.tick++
	c.access[key] = c.tick
	return cached, true
}

func (c *queryCache) put(key string, results []Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.results[key]; !ok && len(c.results) >= c.max {
		c.evictOldest()
	}
	c.results[key] = results
	c.tick++
	c.access[key] = c.tick
}

func (c *queryCache) evictOldest() {
	var oldestKey string
	var oldestTick int64 = 9223372036854775807

	for key, tick := range c.access {
		if tick < oldestTick {
			oldestTick = tick
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.results, oldestKey)
		delete(c.access, oldestKey)
	}
}

func (c *queryCache) stats() (hits, misses int64, entries int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.results)
}
