package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("len = %d, want 64", len(h1))
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "k", []byte("*Group g {}"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "*Group g {}" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	// Overwrite replaces the entry in place.
	if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatal(err)
	}
	if data, _, _ := c.Get(ctx, "k"); string(data) != "v2" {
		t.Errorf("after overwrite Get = %q", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheNoTempLeftovers(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	matches, _ := filepath.Glob(filepath.Join(c.Dir(), "*", ".entry-*"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared key should miss")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name string
		a, b ArtifactKeyOpts
	}{
		{"format", ArtifactKeyOpts{Format: "ldr"}, ArtifactKeyOpts{Format: "bdr"}},
		{"pretty", ArtifactKeyOpts{Format: "ldr"}, ArtifactKeyOpts{Format: "ldr", Pretty: true}},
		{"detailed", ArtifactKeyOpts{Format: "svg"}, ArtifactKeyOpts{Format: "svg", Detailed: true}},
		{"scale", ArtifactKeyOpts{Format: "png", Scale: 1}, ArtifactKeyOpts{Format: "png", Scale: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.ArtifactKey("h", tt.a) == k.ArtifactKey("h", tt.b) {
				t.Error("different options should produce different keys")
			}
		})
	}

	if k.ArtifactKey("h1", ArtifactKeyOpts{Format: "ldr"}) == k.ArtifactKey("h2", ArtifactKeyOpts{Format: "ldr"}) {
		t.Error("different scene hashes should produce different keys")
	}
	key := k.ArtifactKey("h", ArtifactKeyOpts{Format: "ldr"})
	if len(key) != len("artifact:")+64 || key[:9] != "artifact:" {
		t.Errorf("unexpected key shape: %s", key)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	opts := ArtifactKeyOpts{Format: "svg"}
	got := NewScopedKeyer(inner, "ldraw:").ArtifactKey("h", opts)
	if want := "ldraw:" + inner.ArtifactKey("h", opts); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if got := NewScopedKeyer(nil, "p:").ArtifactKey("h", opts); got != "p:"+inner.ArtifactKey("h", opts) {
		t.Errorf("nil inner: %s", got)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	base := errors.New("conn reset")
	err := Retryable(base)
	if !IsRetryable(err) || err.Error() != base.Error() || !errors.Is(err, base) {
		t.Errorf("Retryable did not wrap: %v", err)
	}
	if IsRetryable(base) {
		t.Error("plain error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 100 * time.Millisecond })
	ctx := context.Background()
	base := errors.New("boom")

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"one transient", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(base)
					}
					return base
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v", err)
			}
			if err != nil && IsRetryable(err) {
				t.Error("returned error should be unwrapped")
			}
		})
	}
}

func TestRetryWithBackoffCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("x")) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRedisCacheConfig(t *testing.T) {
	c, err := NewRedisCache("redis://localhost:6390/2", WithKeyPrefix("ldraw:"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr() != "localhost:6390" || c.prefix != "ldraw:" {
		t.Errorf("addr=%s prefix=%s", c.Addr(), c.prefix)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, _, err := c.Get(context.Background(), "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}

	if _, err := NewRedisCache("http://nope"); err == nil {
		t.Error("bad scheme should fail")
	}
}

type recordingCache struct {
	NullCache
	ttl time.Duration
}

func (c *recordingCache) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	c.ttl = ttl
	return nil
}

func TestWithTTL(t *testing.T) {
	rc := &recordingCache{}
	if WithTTL(rc, 0) != Cache(rc) {
		t.Error("zero ttl should return the cache unchanged")
	}
	c := WithTTL(rc, time.Minute)
	if err := c.Set(context.Background(), "k", nil, TTLArtifact); err != nil {
		t.Fatal(err)
	}
	if rc.ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", rc.ttl)
	}
}
