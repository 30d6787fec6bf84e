package geometry

import (
	"errors"
	"testing"
)

func TestCacheGetOrGenerate(t *testing.T) {
	c := NewCache()

	m1, err := c.GetOrGenerate(Cube{Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	m2, err := c.GetOrGenerate(Cube{Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m2 {
		t.Error("equal descriptors returned different meshes")
	}

	m3, _ := c.GetOrGenerate(Cube{Size: 2})
	if m3 == m1 {
		t.Error("different descriptors returned the same mesh")
	}

	stats := c.Stats()
	if stats.Len != 2 || stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("Stats() = %+v, want Len=2 Hits=1 Misses=2", stats)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheDoesNotStoreInvalid(t *testing.T) {
	c := NewCache()
	_, err := c.GetOrGenerate(Sphere{Radius: 1, Subdivisions: 1})
	if !errors.Is(err, ErrInvalidDescriptor) {
		t.Fatalf("error = %v, want ErrInvalidDescriptor", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	_, _ = c.GetOrGenerate(Triangle{Base: 1, Height: 1})
	_, _ = c.GetOrGenerate(Triangle{Base: 1, Height: 1})
	c.Clear()

	stats := c.Stats()
	if stats != (CacheStats{}) {
		t.Errorf("Stats() after Clear = %+v, want zero", stats)
	}
}

func TestCacheHitRate(t *testing.T) {
	c := NewCache()
	for range 4 {
		_, _ = c.GetOrGenerate(Square{Size: 1})
	}
	if got := c.Stats().HitRate; got != 0.75 {
		t.Errorf("HitRate = %v, want 0.75", got)
	}
}
