package cache

import (
	"testing"
	"time"
)

func newTestCache(t *testing.T) *ListCache {
	t.Helper()
	c, err := New(16, 60, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestGetPut(t *testing.T) {
	c := newTestCache(t)

	if _, ok := c.Get("u1", "items"); ok {
		t.Error("empty cache should miss")
	}

	c.Put("u1", "items", []byte(`[{"id":1}]`))

	body, ok := c.Get("u1", "items")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if string(body) != `[{"id":1}]` {
		t.Errorf("body: got %s", body)
	}
}

func TestTenantSeparation(t *testing.T) {
	c := newTestCache(t)

	c.Put("u1", "items", []byte("a"))

	if _, ok := c.Get("u2", "items"); ok {
		t.Error("u2 must not hit u1's entry")
	}
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t)

	c.Put("u1", "items", []byte("a"))
	c.Put("u1", "demands", []byte("b"))
	c.Put("u2", "items", []byte("c"))

	c.Invalidate("u1")

	if _, ok := c.Get("u1", "items"); ok {
		t.Error("u1 items should be invalidated")
	}
	if _, ok := c.Get("u1", "demands"); ok {
		t.Error("u1 demands should be invalidated")
	}
	if _, ok := c.Get("u2", "items"); !ok {
		t.Error("u2 items should survive u1's invalidation")
	}
}

func TestExpiry(t *testing.T) {
	c, err := New(16, 0, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("u1", "items", []byte("a"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("u1", "items"); ok {
		t.Error("entry past its TTL should miss")
	}
}

func TestDisabled(t *testing.T) {
	c, err := New(16, 60, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("u1", "items", []byte("a"))
	if _, ok := c.Get("u1", "items"); ok {
		t.Error("disabled cache must never hit")
	}
}
