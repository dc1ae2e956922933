package cache

import (
	"errors"
	"testing"
	"time"
)

// fakeClock lets tests advance time deterministically.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache() (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewWithClock(clock.Now), clock
}

func TestGetOrComputeCachesWithinTTL(t *testing.T) {
	c, clock := newTestCache()

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v1, err := c.GetOrCompute("service:search:k", time.Minute, compute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(30 * time.Second)
	v2, _ := c.GetOrCompute("service:search:k", time.Minute, compute)

	if v1 != v2 {
		t.Errorf("value changed within TTL: %v != %v", v1, v2)
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

func TestGetOrComputeRecomputesAfterTTL(t *testing.T) {
	c, clock := newTestCache()

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, _ = c.GetOrCompute("k", time.Minute, compute)
	clock.Advance(61 * time.Second)
	v, _ := c.GetOrCompute("k", time.Minute, compute)

	if calls != 2 {
		t.Errorf("compute ran %d times, want 2", calls)
	}
	if v != 2 {
		t.Errorf("expected recomputed value 2, got %v", v)
	}
}

func TestGetNeverReturnsExpired(t *testing.T) {
	c, clock := newTestCache()
	c.Set("k", "v", time.Minute)

	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry returned")
	}
}

func TestComputeErrorIsNotCached(t *testing.T) {
	c, _ := newTestCache()

	boom := errors.New("boom")
	_, err := c.GetOrCompute("k", time.Minute, func() (interface{}, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}

	v, err := c.GetOrCompute("k", time.Minute, func() (interface{}, error) {
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Errorf("expected retry to succeed, got %v, %v", v, err)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c, _ := newTestCache()
	c.Set("service:search:a", 1, time.Minute)
	c.Set("service:match:b", 2, time.Minute)
	c.Set("resource:search:c", 3, time.Minute)

	removed := c.InvalidatePrefix("service:")
	if removed != 2 {
		t.Errorf("removed %d entries, want 2", removed)
	}
	if _, ok := c.Get("service:search:a"); ok {
		t.Error("service entry survived prefix invalidation")
	}
	if _, ok := c.Get("resource:search:c"); !ok {
		t.Error("resource entry should survive")
	}
}

func TestClearAndStats(t *testing.T) {
	c, clock := newTestCache()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Second)

	c.Get("a")       // hit
	c.Get("missing") // miss

	clock.Advance(30 * time.Second) // "b" 만료

	stats := c.Stats()
	if stats.Keys != 1 {
		t.Errorf("stats.Keys = %d, want 1 (expired keys not counted)", stats.Keys)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit / 1 miss", stats)
	}

	if removed := c.Clear(); removed == 0 {
		t.Error("Clear removed nothing")
	}
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived Clear")
	}
}
