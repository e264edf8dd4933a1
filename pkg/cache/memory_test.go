package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := Key("search", "질문", "5")
		b := Key("search", "질문", "5")
		if a != b {
			t.Errorf("same inputs produced different keys: %s vs %s", a, b)
		}
	})

	t.Run("distinct per argument", func(t *testing.T) {
		if Key("search", "a", "b") == Key("search", "a", "c") {
			t.Error("different args collided")
		}
		if Key("search", "a") == Key("answer", "a") {
			t.Error("different prefixes collided")
		}
	})
}

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, time.Minute)

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}

	s.Set(ctx, "k", "v", 0)
	got, ok := s.Get(ctx, "k")
	if !ok || got != "v" {
		t.Errorf("Get = (%q, %v), want (v, true)", got, ok)
	}

	s.Set(ctx, "k", "v2", 0)
	if got, _ := s.Get(ctx, "k"); got != "v2" {
		t.Errorf("overwrite failed, got %q", got)
	}
	if s.Len() != 1 {
		t.Errorf("overwrite changed size: %d", s.Len())
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	s := NewMemoryStore(10, time.Minute, WithClock(func() time.Time { return now }))

	s.Set(ctx, "k", "v", 30*time.Second)

	now = now.Add(29 * time.Second)
	if _, ok := s.Get(ctx, "k"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(2 * time.Second)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
	if s.Len() != 0 {
		t.Errorf("expired entry not purged, size %d", s.Len())
	}
}

func TestMemoryStoreBound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3, time.Minute)

	for i := 0; i < 5; i++ {
		s.Set(ctx, fmt.Sprintf("k%d", i), "v", 0)
	}

	if s.Len() != 3 {
		t.Fatalf("size %d exceeds bound 3", s.Len())
	}
	// Oldest inserts are gone, newest survive.
	if _, ok := s.Get(ctx, "k0"); ok {
		t.Error("k0 should have been evicted")
	}
	if _, ok := s.Get(ctx, "k1"); ok {
		t.Error("k1 should have been evicted")
	}
	if _, ok := s.Get(ctx, "k4"); !ok {
		t.Error("k4 should still be cached")
	}
}

func TestMemoryStoreEvictsExpiredFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	s := NewMemoryStore(2, time.Minute, WithClock(func() time.Time { return now }))

	s.Set(ctx, "short", "v", time.Second)
	s.Set(ctx, "long", "v", time.Hour)

	now = now.Add(10 * time.Second)
	s.Set(ctx, "new", "v", time.Hour)

	if _, ok := s.Get(ctx, "long"); !ok {
		t.Error("live entry evicted while an expired one existed")
	}
	if _, ok := s.Get(ctx, "new"); !ok {
		t.Error("new entry missing")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, time.Minute)
	s.Set(ctx, "k", "v", 0)
	s.Delete(ctx, "k")
	if _, ok := s.Get(ctx, "k"); ok {
		t.Error("deleted key still present")
	}
	s.Delete(ctx, "k") // no-op on missing key
}
