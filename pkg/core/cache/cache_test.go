package cache

import (
	"errors"
	"testing"
	"time"
)

// newTestCache returns a cache with a controllable clock.
func newTestCache(cfg Config) (*Cache[string, int], *time.Time) {
	c := New[string, int](cfg)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 10})
	defer c.Close()

	if _, ok := c.Get("a"); ok {
		t.Error("Get() on empty cache should miss")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get() after Delete should miss")
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Stats() = %d hits, %d misses; want 1, 2", hits, misses)
	}
	if rate < 33 || rate > 34 {
		t.Errorf("hit rate = %v, want ~33.3", rate)
	}
}

func TestCache_TTL(t *testing.T) {
	c, now := newTestCache(Config{MaxItems: 10, TTL: time.Minute})
	defer c.Close()

	c.Set("short", 1)
	c.SetWithTTL("forever", 2, 0)

	*now = now.Add(2 * time.Minute)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry should miss")
	}
	if v, ok := c.Get("forever"); !ok || v != 2 {
		t.Errorf("Get(forever) = %v, %v; want 2, true", v, ok)
	}

	c.SetWithTTL("soon", 3, time.Second)
	*now = now.Add(time.Hour)
	c.cleanup()
	if c.Size() != 1 {
		t.Errorf("Size() after cleanup = %d, want 1", c.Size())
	}
}

func TestCache_Eviction(t *testing.T) {
	c, now := newTestCache(Config{MaxItems: 2})
	defer c.Close()

	c.Set("first", 1)
	*now = now.Add(time.Second)
	c.Set("second", 2)
	*now = now.Add(time.Second)
	c.Set("second", 22) // overwrite does not evict
	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}
	c.Set("third", 3)

	if _, ok := c.Get("first"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if v, _ := c.Get("second"); v != 22 {
		t.Errorf("Get(second) = %d, want 22", v)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", c.Size())
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c, _ := newTestCache(Config{})
	defer c.Close()

	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}
	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet("k", compute)
		if err != nil || v != 42 {
			t.Fatalf("GetOrSet() = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet("bad", func() (int, error) { return 0, boom }); err != boom {
		t.Errorf("GetOrSet() error = %v, want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed computations must not be cached")
	}
}

func TestCache_CloseStopsCleanup(t *testing.T) {
	c := New[string, int](Config{CleanupInterval: time.Millisecond})
	c.Close()
	c.Close() // idempotent
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Error("cache should remain usable after Close")
	}
}
