package cache

import (
	"context"
	"errors"
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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never hit")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v; want v, true, nil", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
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
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}

	// Zero ttl never expires.
	_ = c.Set(ctx, "forever", []byte("v"), 0)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	left, _ := os.ReadDir(c.Dir())
	if len(left) != 0 {
		t.Errorf("Clear left %d entries in %s", len(left), c.Dir())
	}
}

func TestFileCacheClearNested(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "a", []byte("a"), 0)

	nested := filepath.Join(c.Dir(), "zz", "stray")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "x.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d entries, want 2", n)
	}
	if left, _ := os.ReadDir(c.Dir()); len(left) != 0 {
		t.Errorf("Clear left %d entries in %s", len(left), c.Dir())
	}
}

func TestFileCacheClearErrors(t *testing.T) {
	ctx := context.Background()

	missing := &FileCache{dir: filepath.Join(t.TempDir(), "gone")}
	if n, err := missing.Clear(ctx); err != nil || n != 0 {
		t.Errorf("missing dir: n=%d err=%v, want 0, nil", n, err)
	}

	file := filepath.Join(t.TempDir(), "cache")
	if err := os.WriteFile(file, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&FileCache{dir: file}).Clear(ctx); err == nil {
		t.Error("Clear on a regular file should fail")
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("Clear removed the file it was pointed at: %v", err)
	}

	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "a", []byte("a"), 0)
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.Clear(cctx); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled Clear: err = %v, want context.Canceled", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	buf := []byte("v")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'

	data, hit, _ := c.Get(ctx, "k")
	if !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v; want stored copy v", data, hit)
	}

	now := time.Now()
	c.now = func() time.Time { return now }
	_ = c.Set(ctx, "ttl", []byte("v"), time.Minute)
	c.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, hit, _ := c.Get(ctx, "ttl"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
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
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := SearchKeyOpts{Start: "A", Goal: "E", MaxDepth: 5, Strategy: "prune"}
	sk := k.SearchKey("g1", base)
	if !strings.HasPrefix(sk, "search:") {
		t.Errorf("SearchKey = %q, want search: prefix", sk)
	}
	if sk != k.SearchKey("g1", base) {
		t.Error("SearchKey should be deterministic")
	}

	variants := []SearchKeyOpts{
		{Start: "B", Goal: "E", MaxDepth: 5, Strategy: "prune"},
		{Start: "A", Goal: "D", MaxDepth: 5, Strategy: "prune"},
		{Start: "A", Goal: "E", MaxDepth: 6, Strategy: "prune"},
		{Start: "A", Goal: "E", MaxDepth: 5, Strategy: "parent"},
	}
	for _, v := range variants {
		if k.SearchKey("g1", v) == sk {
			t.Errorf("SearchKey(%+v) collides with %+v", v, base)
		}
	}
	if k.SearchKey("g2", base) == sk {
		t.Error("different graphs should produce different keys")
	}

	rk1 := k.RenderKey("g1", RenderKeyOpts{Format: "svg"})
	rk2 := k.RenderKey("g1", RenderKeyOpts{Format: "svg", Path: []string{"A", "B"}})
	if rk1 == rk2 || !strings.HasPrefix(rk1, "render:") {
		t.Errorf("RenderKey: %q, %q", rk1, rk2)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:")
	inner := NewDefaultKeyer()
	opts := SearchKeyOpts{Start: "A", Goal: "B", MaxDepth: 1}

	if got, want := scoped.SearchKey("g", opts), "tenant:"+inner.SearchKey("g", opts); got != want {
		t.Errorf("SearchKey = %q, want %q", got, want)
	}
	if got := scoped.RenderKey("g", RenderKeyOpts{Format: "dot"}); !strings.HasPrefix(got, "tenant:render:") {
		t.Errorf("RenderKey = %q", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Config{Backend: "none"})
	if err != nil {
		t.Fatalf("Open(none): %v", err)
	}
	if _, ok := c.(NullCache); !ok {
		t.Errorf("Open(none) = %T, want NullCache", c)
	}

	c, err = Open(ctx, Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := c.(*FileCache); !ok {
		t.Errorf("Open(\"\") = %T, want *FileCache", c)
	}

	if _, err := Open(ctx, Config{Backend: "file"}); err == nil {
		t.Error("file backend without directory should fail")
	}
	if _, err := Open(ctx, Config{Backend: "memcached"}); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should be true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("unwrapped error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return ErrUnavailable
	})
	if err != ErrUnavailable || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then succeed: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("always failing: err=%v calls=%d, want 3 calls", err, calls)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	err = RetryWithBackoff(cctx, func() error { return Retryable(ErrUnavailable) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context: err=%v", err)
	}
}
