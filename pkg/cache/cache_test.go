package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashBlock(t *testing.T) {
	base := "type: generic\ndescription: two points\n"
	tests := []struct {
		name  string
		block string
		same  bool
	}{
		{"identical", base, true},
		{"crlf", "type: generic\r\ndescription: two points\r\n", true},
		{"trailing spaces", "type: generic   \ndescription: two points\t\n", true},
		{"trailing blank lines", base + "\n\n", true},
		{"indent changed", "type: generic\n  description: two points\n", false},
		{"value changed", "type: generic\ndescription: three points\n", false},
	}
	want := HashBlock(base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HashBlock(tt.block) == want; got != tt.same {
				t.Errorf("HashBlock(%q) equal = %v, want %v", tt.block, got, tt.same)
			}
		})
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Fatal("empty cache should miss")
	}

	value := []byte("value")
	if err := c.Set(ctx, "key", value, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	value[0] = 'X' // the cache keeps its own copy

	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want value", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted key should miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1 after expiry", c.Len())
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	h := Hash([]byte("type: generic"))

	ak1 := k.ArtifactKey(h, ArtifactKeyOpts{Formats: []string{"svg"}})
	ak2 := k.ArtifactKey(h, ArtifactKeyOpts{Formats: []string{"png"}})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if ak1 != k.ArtifactKey(h, ArtifactKeyOpts{Formats: []string{"svg"}}) {
		t.Error("ArtifactKey should be deterministic")
	}

	ak3 := k.ArtifactKey(h, ArtifactKeyOpts{Formats: []string{"svg"}, Settings: map[string]float64{"width": 400}})
	if ak1 == ak3 {
		t.Error("Settings should be part of the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "run:123:")
	key := scoped.ArtifactKey("abc", ArtifactKeyOpts{})
	if !strings.HasPrefix(key, "run:123:artifact:") {
		t.Errorf("ScopedKeyer key should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	want := "prefix:" + NewDefaultKeyer().ArtifactKey("abc", ArtifactKeyOpts{})
	if key := scoped.ArtifactKey("abc", ArtifactKeyOpts{}); key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
