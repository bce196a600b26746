// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable time source for driving TTL expiry.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T) *SimpleCache {
	t.Helper()
	c := New(5 * time.Minute)
	t.Cleanup(c.Stop)
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t)
	c.Set("key1", "value1")

	val, found := c.Get("key1")
	if !found {
		t.Fatal("expected key1 to exist")
	}
	if val != "value1" {
		t.Errorf("expected value1, got %v", val)
	}

	if _, found := c.Get("missing"); found {
		t.Error("expected missing key to not exist")
	}
}

func TestExpiry(t *testing.T) {
	clock := newFakeClock()
	c := NewWithClock(5*time.Minute, clock.Now)
	t.Cleanup(c.Stop)

	c.Set("key1", "value1")

	clock.Advance(4 * time.Minute)
	if _, found := c.Get("key1"); !found {
		t.Error("entry expired before its TTL")
	}

	clock.Advance(2 * time.Minute)
	if _, found := c.Get("key1"); found {
		t.Error("entry survived past its TTL")
	}
}

func TestSetWithTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewWithClock(5*time.Minute, clock.Now)
	t.Cleanup(c.Stop)

	c.SetWithTTL("short", "v", time.Minute)
	c.Set("long", "v")

	clock.Advance(2 * time.Minute)
	if _, found := c.Get("short"); found {
		t.Error("short-TTL entry should have expired")
	}
	if _, found := c.Get("long"); !found {
		t.Error("default-TTL entry should still exist")
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := newTestCache(t)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, found := c.Get("a"); found {
		t.Error("deleted key still present")
	}

	c.Clear()
	if _, found := c.Get("b"); found {
		t.Error("cleared key still present")
	}
}

func TestDeleteByPrefix(t *testing.T) {
	c := newTestCache(t)
	c.Set("setting:home_page", "x")
	c.Set("setting:site_name", "y")
	c.Set("all_menu_items", "z")

	c.DeleteByPrefix("setting:")

	if _, found := c.Get("setting:home_page"); found {
		t.Error("prefixed key survived")
	}
	if _, found := c.Get("all_menu_items"); !found {
		t.Error("unrelated key was removed")
	}
}

func TestStats(t *testing.T) {
	c := newTestCache(t)
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.Items != 1 {
		t.Errorf("Items = %d, want 1", stats.Items)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("HitRate = %f, want ~2/3", stats.HitRate)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := newTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("key", j)
				c.Get("key")
			}
		}()
	}
	wg.Wait()
}
