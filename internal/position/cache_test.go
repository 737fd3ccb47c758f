package position

import (
	"testing"
	"time"
)

func TestCacheGetPut(t *testing.T) {
	cache := NewCache(0)
	at := time.Date(2369, time.July, 1, 0, 0, 0, 0, time.UTC)

	if _, ok := cache.Get(0, at); ok {
		t.Fatal("expected empty cache miss")
	}
	cache.Put(0, at, 23)
	got, ok := cache.Get(0, at)
	if !ok || got != 23 {
		t.Fatalf("get = %d, %v; want 23, true", got, ok)
	}
}

func TestCacheIgnoresOtherRevisions(t *testing.T) {
	cache := NewCache(10)
	at := time.Date(2369, time.July, 1, 0, 0, 0, 0, time.UTC)

	cache.Put(3, at, 23)
	if _, ok := cache.Get(4, at); ok {
		t.Fatal("expected miss for newer revision")
	}
	cache.Put(4, at.Add(time.Hour), 30)
	if _, ok := cache.Get(3, at); ok {
		t.Fatal("expected revision change to drop older entries")
	}
	if stats := cache.Stats(); stats.Entries != 1 || stats.Revision != 4 {
		t.Fatalf("stats = %+v, want one entry at revision 4", stats)
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(10)
	at := time.Date(2369, time.July, 1, 0, 0, 0, 0, time.UTC)
	cache.Put(1, at, 5)

	cache.Clear()
	if _, ok := cache.Get(1, at); ok {
		t.Fatal("expected miss after clear")
	}
}

func TestCacheResetsWhenFull(t *testing.T) {
	cache := NewCache(2)
	base := time.Date(2369, time.July, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		cache.Put(0, base.Add(time.Duration(i)*time.Hour), i+1)
	}

	if stats := cache.Stats(); stats.Entries != 1 {
		t.Fatalf("entries = %d, want 1", stats.Entries)
	}
	if got, ok := cache.Get(0, base.Add(2*time.Hour)); !ok || got != 3 {
		t.Fatalf("get = %d, %v; want 3, true", got, ok)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var cache *Cache
	at := time.Now()
	cache.Put(0, at, 1)
	cache.Clear()
	if _, ok := cache.Get(0, at); ok {
		t.Fatal("expected nil cache to miss")
	}
	if stats := cache.Stats(); stats != (Stats{}) {
		t.Fatalf("stats = %+v, want zero", stats)
	}
}
