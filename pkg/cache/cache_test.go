package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCache_RoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "layout:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !hit {
		t.Fatal("Get() miss, want hit")
	}
	if string(data) != "payload" {
		t.Errorf("Get() = %q, want %q", data, "payload")
	}
}

func TestFileCache_MissForUnknownKey(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	_, hit, err := c.Get(context.Background(), "layout:nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if hit {
		t.Error("Get() hit for unknown key")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()

	if err := c.Set(ctx, "layout:ttl", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(ctx, "layout:ttl")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if hit {
		t.Error("Get() hit for expired entry")
	}
}

func TestFileCache_Delete(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()

	_ = c.Set(ctx, "relate:x", []byte("v"), 0)
	if err := c.Delete(ctx, "relate:x"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "relate:x"); hit {
		t.Error("Get() hit after Delete()")
	}
	// Deleting again must not error.
	if err := c.Delete(ctx, "relate:x"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	fc, _ := NewFileCache(t.TempDir())
	c := fc.(*FileCache)
	ctx := context.Background()

	_ = c.Set(ctx, "relate:a", []byte("1"), 0)
	_ = c.Set(ctx, "layout:b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "relate:a"); hit {
		t.Error("entry survived Clear()")
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("NullCache stored a value")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	r1 := k.RelateKey("hash1", []string{"classification"})
	r2 := k.RelateKey("hash1", []string{"classification", "family"})
	if r1 == r2 {
		t.Error("different attrs should produce different relate keys")
	}

	l1 := k.LayoutKey("hash1", LayoutKeyOpts{Iterations: 100, Seed: 42})
	l2 := k.LayoutKey("hash1", LayoutKeyOpts{Iterations: 200, Seed: 42})
	if l1 == l2 {
		t.Error("different LayoutKeyOpts should produce different keys")
	}

	a1 := k.ArtifactKey("hash1", "svg")
	a2 := k.ArtifactKey("hash1", "png")
	if a1 == a2 {
		t.Error("different formats should produce different artifact keys")
	}

	// Keys are stable for identical inputs.
	if k.LayoutKey("hash1", LayoutKeyOpts{Seed: 42}) != k.LayoutKey("hash1", LayoutKeyOpts{Seed: 42}) {
		t.Error("identical inputs should produce identical keys")
	}
}

func TestHash_Stable(t *testing.T) {
	if Hash([]byte("abc")) != Hash([]byte("abc")) {
		t.Error("Hash() not stable")
	}
	if Hash([]byte("abc")) == Hash([]byte("abd")) {
		t.Error("Hash() collision on different inputs")
	}
	if got := len(Hash([]byte("abc"))); got != 64 {
		t.Errorf("Hash() length = %d, want 64", got)
	}
}
