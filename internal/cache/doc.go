// Package cache provides the generic recency list and caches used across
// the module.
//
// # List[K]
//
// A doubly-linked recency list. The tile atlas uses it directly to pick the
// least recently used slot that is not protected from eviction.
//
// # Cache[K, V]
//
// A thread-safe LRU cache with a soft limit and 25% eviction, used to
// memoise compiled shaders.
//
//	c := cache.New[string, int](100)
//	v := c.GetOrCreate("key", func() int { return 42 })
//
// # Sharded[K, V]
//
// A sharded LRU cache for concurrent access. The tile resolver uses it to
// deduplicate requests across worker goroutines.
//
//	c := cache.NewSharded[string, int](256, cache.StringHasher)
//	if c.SetIfAbsent("key", 1) {
//		// first claim
//	}
//
// Neither cache should be copied after creation (they contain mutexes).
package cache
