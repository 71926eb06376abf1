package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[[]string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Set("k", []string{"a", "b"})
	got, ok := c.Get("k")
	if !ok || len(got) != 2 {
		t.Fatalf("Get = %v, %v; want the stored slice", got, ok)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[int](10, 20*time.Millisecond)
	c.Set("k", 1)
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still returned")
	}
}

func TestCache_Eviction(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("least recently used entry should have been evicted")
	}
}

func TestCache_Disabled(t *testing.T) {
	c := New[int](10, 0)
	if c != nil {
		t.Fatal("zero TTL should disable the cache")
	}
	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Error("disabled cache returned a hit")
	}
	if c.Len() != 0 {
		t.Error("disabled cache should be empty")
	}
}

func TestKey(t *testing.T) {
	if Key("search", "doom") == Key("search", "doom2") {
		t.Error("different inputs produced the same key")
	}
	if Key("search", "doom") != Key("search", "doom") {
		t.Error("Key is not deterministic")
	}
}
