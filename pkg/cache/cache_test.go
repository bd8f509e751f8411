package cache

import (
	"context"
	"os"
	"path/filepath"
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

func TestHashKey(t *testing.T) {
	opts := ArtifactKeyOpts{Format: "svg"}
	base := hashKey("artifact", "abc", opts)

	tests := []struct {
		name string
		key  string
	}{
		{"kind", hashKey("layout", "abc", opts)},
		{"base", hashKey("artifact", "abd", opts)},
		{"opts", hashKey("artifact", "abc", ArtifactKeyOpts{Format: "png"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Errorf("changing the %s should change the key", tt.name)
			}
		})
	}
	if !strings.HasPrefix(base, "artifact:") || len(base) != len("artifact:")+64 {
		t.Errorf("hashKey() = %q, want artifact:<sha256>", base)
	}
	if hashKey("artifact", "abc", opts) != base {
		t.Error("hashKey should be deterministic")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{VizType: "arcs", Width: 800, Height: 400, MinScale: 0.5, MaxScale: 1.5, ZoomK: 1}
	tests := []struct {
		name   string
		modify func(o *LayoutKeyOpts)
	}{
		{"viz type", func(o *LayoutKeyOpts) { o.VizType = "nodelink" }},
		{"width", func(o *LayoutKeyOpts) { o.Width = 801 }},
		{"scale bounds", func(o *LayoutKeyOpts) { o.MaxScale = 2 }},
		{"zoom", func(o *LayoutKeyOpts) { o.ZoomK = 1.5 }},
		{"selection", func(o *LayoutKeyOpts) { o.Selected = []int{1} }},
		{"shortening", func(o *LayoutKeyOpts) { o.Shorten = true }},
	}
	want := k.LayoutKey("hash123", base)
	if !strings.HasPrefix(want, "layout:") {
		t.Errorf("LayoutKey prefix: %s", want)
	}
	if again := k.LayoutKey("hash123", base); again != want {
		t.Error("LayoutKey should be deterministic")
	}
	if other := k.LayoutKey("hash456", base); other == want {
		t.Error("different input hashes should produce different keys")
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.modify(&opts)
			if got := k.LayoutKey("hash123", opts); got == want {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Interactive: true})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey prefix: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	opts := ArtifactKeyOpts{Format: "svg"}
	if got, want := scoped.ArtifactKey("abc", opts), "user:123:"+inner.ArtifactKey("abc", opts); got != want {
		t.Errorf("ArtifactKey = %s, want %s", got, want)
	}
	lk := scoped.LayoutKey("abc", LayoutKeyOpts{})
	if !strings.HasPrefix(lk, "user:123:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", lk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if key != "prefix:"+NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, err := c.Get(ctx, "short"); err != nil || hit {
		t.Errorf("expired entry: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "key", []byte("x"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := os.WriteFile(c.path("key"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Errorf("corrupt entry should be a miss: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(c.path("key")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", c.Dir(), dir)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry should be gone after Clear")
	}
	left, _ := os.ReadDir(dir)
	if len(left) != 0 {
		t.Errorf("Clear left %d shard directories", len(left))
	}

	missing := &FileCache{dir: filepath.Join(dir, "missing")}
	if n, err := missing.Clear(); n != 0 || err != nil {
		t.Errorf("Clear on missing dir = %d, %v", n, err)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("DEPVIZ_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DEPVIZ_TEST_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url"); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("DEPVIZ_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("DEPVIZ_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewMongoCache(ctx, uri, "depviz_test", "artifacts_"+Hash([]byte(t.Name()))[:8])
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	exerciseCache(t, c)

	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, _, err := c.Get(ctx, "key"); err != ErrClosed {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
}

func TestMongoCacheRequiresDatabase(t *testing.T) {
	if _, err := NewMongoCache(context.Background(), "mongodb://localhost:27017", "", ""); err == nil {
		t.Error("expected error for empty database name")
	}
}

// exerciseCache runs the behaviour every backend shares.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + t.Name()

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("initial Get: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("Get = %q, want <svg/>", data)
	}

	if err := c.Set(ctx, key, []byte("<svg></svg>"), time.Hour); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, key); string(data) != "<svg></svg>" {
		t.Errorf("Get after overwrite = %q", data)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrClosed) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrClosed
	})
	if err != ErrClosed {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
