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
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	key := OracleKey("what is this graph", "The graph contains 3 nodes")

	// Miss before set
	_, hit, err := c.Get(ctx, key)
	if err != nil || hit {
		t.Fatalf("Get before Set: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, key, []byte("cached answer"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "cached answer" {
		t.Errorf("Get = (%q, %v), want cached answer", data, hit)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, key)
	if hit {
		t.Error("hit after Delete")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	// Negative TTL means already expired.
	_, hit, _ := c.Get(ctx, "key")
	if hit {
		t.Error("expired entry returned as hit")
	}
}

func TestOracleKeyStable(t *testing.T) {
	a := OracleKey("q", "ctx")
	b := OracleKey("q", "ctx")
	if a != b {
		t.Error("OracleKey not deterministic")
	}
	if !strings.HasPrefix(a, "oracle:") {
		t.Errorf("OracleKey prefix = %q", a)
	}
	if OracleKey("q", "other") == a {
		t.Error("OracleKey ignores context")
	}
}

func TestKeyType(t *testing.T) {
	if got := keyType("oracle:abc"); got != "oracle" {
		t.Errorf("keyType = %q, want oracle", got)
	}
	if got := keyType("bare"); got != "bare" {
		t.Errorf("keyType = %q, want bare", got)
	}
}
