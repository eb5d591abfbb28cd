package cache_test

import (
	"testing"
	"time"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("merchant:amazon", "shopping")
	val, ok := c.Get("merchant:amazon")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "shopping" {
		t.Errorf("expected 'shopping', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_SetWithTTLOverridesDefault(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.SetWithTTL("short", "value", 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("short")
	if ok {
		t.Fatal("expected short-lived entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_Len(t *testing.T) {
	c := cache.New[int](5 * time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	if n := c.Len(); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}
}
