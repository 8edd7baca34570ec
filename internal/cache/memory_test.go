package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_PutGetExpire(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if err := m.Put(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got map[string]int
	if err := m.Get(ctx, "k", &got); err != nil || got["a"] != 1 {
		t.Fatalf("get: %v %v", got, err)
	}

	now = now.Add(2 * time.Minute)
	if err := m.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after ttl, got %v", err)
	}
}

func TestMemory_Acquire(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ok, _ := m.Acquire(ctx, "lock", time.Minute)
	if !ok {
		t.Fatalf("first acquire must succeed")
	}
	ok, _ = m.Acquire(ctx, "lock", time.Minute)
	if ok {
		t.Fatalf("second acquire must fail")
	}

	_ = m.Delete(ctx, "lock")
	ok, _ = m.Acquire(ctx, "lock", time.Minute)
	if !ok {
		t.Fatalf("acquire after delete must succeed")
	}
}

func TestMemory_PurgeDropsExpiredKeys(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Put(ctx, "form:a", 1, time.Minute)
	_ = m.Put(ctx, "geocode:b", 2, time.Hour)
	_ = m.Put(ctx, "sem-ttl", 3, 0)

	now = now.Add(2 * time.Minute)
	if n := m.Purge(); n != 1 {
		t.Fatalf("expected 1 purged, got %d", n)
	}
	if len(m.items) != 2 {
		t.Fatalf("expected 2 live keys, got %d", len(m.items))
	}
	if _, ok := m.items["form:a"]; ok {
		t.Fatalf("expired key must be gone")
	}
}
