package geometry

// Cache maps descriptors to generated meshes.
//
// Meshes are generated on first use and kept for the lifetime of the cache;
// there is no eviction because the set of distinct descriptors in a scene is
// small. Cache is not safe for concurrent use.
type Cache struct {
	meshes map[Descriptor]*Mesh
	hits   uint64
	misses uint64
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Len     int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{meshes: make(map[Descriptor]*Mesh)}
}

// GetOrGenerate returns the cached mesh for d, generating it on a miss.
// Descriptors that fail validation are not cached.
//
// The returned mesh is shared; callers must not modify it.
func (c *Cache) GetOrGenerate(d Descriptor) (*Mesh, error) {
	if m, ok := c.meshes[d]; ok {
		c.hits++
		return m, nil
	}
	c.misses++
	m, err := Generate(d)
	if err != nil {
		return nil, err
	}
	c.meshes[d] = m
	return m, nil
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	return len(c.meshes)
}

// Clear drops all meshes and resets statistics.
func (c *Cache) Clear() {
	clear(c.meshes)
	c.hits, c.misses = 0, 0
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Len:     len(c.meshes),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}
