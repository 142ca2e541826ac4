package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Errorf("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Errorf("a should survive, it was used recently")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.t = clock.t.Add(30 * time.Second)
	c.Set("b", "2") // refreshes b

	clock.t = clock.t.Add(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Errorf("a should have expired")
	}
	if removed := c.CleanExpired(); removed != 0 {
		t.Errorf("CleanExpired() = %d, want 0 (a already dropped by Get)", removed)
	}

	clock.t = clock.t.Add(time.Minute)
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired() = %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCacheStats(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)
	c.Set("a", "1")
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	c.Delete("a")
	c.Get("a")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 2 || s.Size != 0 {
		t.Fatalf("Stats() = %+v", s)
	}
}

func TestManagerCleanNow(t *testing.T) {
	c, clock := newTestCache(4, time.Second)
	c.Set("a", "1")
	c.Set("b", "2")

	m := NewManager(nil)
	m.Register(c)
	clock.t = clock.t.Add(2 * time.Second)
	if n := m.CleanNow(); n != 2 {
		t.Fatalf("CleanNow() = %d, want 2", n)
	}
}

func TestManagerStartStop(t *testing.T) {
	m := NewManager(nil)
	m.StartCleanup(time.Millisecond)
	m.StartCleanup(time.Millisecond)
	m.Stop()
	// second stop must not block or panic
	m.Stop()
}
