package ystocker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// counter is a FetchFunc that returns the number of calls so far.
type counter struct {
	calls atomic.Int32
	fail  bool
}

func (c *counter) fetch(ctx context.Context) (int, []string, error) {
	n := c.calls.Add(1)
	if c.fail {
		return 0, nil, errors.New("network down")
	}
	return int(n), []string{"ZZZZ: unknown"}, nil
}

func newTestStore(t *testing.T, c *counter) (*Store[int], DirBlob) {
	t.Helper()
	dir := DirBlob(t.TempDir())
	return NewStore("test_cache.json", time.Hour, dir, c.fetch), dir
}

func writeSnapshot(t *testing.T, dir DirBlob, ts time.Time, data int) {
	t.Helper()
	b, err := json.Marshal(Snapshot[int]{Timestamp: unixSeconds(ts), Errors: []string{}, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	if err := dir.Write(context.Background(), "test_cache.json", b); err != nil {
		t.Fatal(err)
	}
}

func TestStoreRefresh(t *testing.T) {
	c := new(counter)
	s, dir := newTestStore(t, c)

	if _, ok := s.Get(); ok {
		t.Fatalf("Get() on an empty store should report false")
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	snap, ok := s.Get()
	if !ok || snap.Data != 1 || len(snap.Errors) != 1 {
		t.Fatalf("Get() = %+v, %v", snap, ok)
	}
	if !s.Fresh() || s.Warming() {
		t.Errorf("Fresh() = %v, Warming() = %v after a refresh", s.Fresh(), s.Warming())
	}

	b, err := os.ReadFile(filepath.Join(string(dir), "test_cache.json"))
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(b, &payload); err != nil {
		t.Fatalf("cache file is not json: %v", err)
	}
	for _, key := range []string{"timestamp", "errors", "data"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("cache file has no %q key: %s", key, b)
		}
	}
}

func TestStoreRefreshFailure(t *testing.T) {
	c := &counter{fail: true}
	s, _ := newTestStore(t, c)
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatalf("Refresh() should fail")
	}
	if _, ok := s.Get(); ok || s.Warming() {
		t.Errorf("a failed refresh must leave the store empty and idle")
	}
}

func TestStoreLoad(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"fresh", 10 * time.Minute, true},
		{"stale", 2 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dir := newTestStore(t, new(counter))
			s.now = func() time.Time { return now }
			writeSnapshot(t, dir, now.Add(-tt.age), 42)
			if got := s.Load(context.Background()); got != tt.want {
				t.Fatalf("Load() = %v, want %v", got, tt.want)
			}
			snap, ok := s.Get()
			if ok != tt.want || (ok && snap.Data != 42) {
				t.Errorf("Get() = %+v, %v", snap, ok)
			}
			if age, ok := s.Age(); ok && age.Round(time.Minute) != tt.age {
				t.Errorf("Age() = %v, want %v", age, tt.age)
			}
		})
	}

	t.Run("missing", func(t *testing.T) {
		s, _ := newTestStore(t, new(counter))
		if s.Load(context.Background()) {
			t.Errorf("Load() without a file should report false")
		}
	})

	t.Run("corrupted", func(t *testing.T) {
		s, dir := newTestStore(t, new(counter))
		if err := dir.Write(context.Background(), "test_cache.json", []byte("{not json")); err != nil {
			t.Fatal(err)
		}
		if s.Load(context.Background()) {
			t.Errorf("Load() of a corrupted file should report false")
		}
	})
}

func TestStoreInvalidate(t *testing.T) {
	c := new(counter)
	s, dir := newTestStore(t, c)
	ctx := context.Background()
	if err := s.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	s.Invalidate(ctx)
	s.Wait()

	if got := c.calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
	snap, ok := s.Get()
	if !ok || snap.Data != 2 {
		t.Errorf("Get() after invalidate = %+v, %v; want the refetched data", snap, ok)
	}
	if _, err := os.Stat(filepath.Join(string(dir), "test_cache.json")); err != nil {
		t.Errorf("refetch should have written the cache file: %v", err)
	}
}

func TestStoreInvalidateWhileWarming(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var calls atomic.Int32
	s := NewStore("test_cache.json", time.Hour, DirBlob(t.TempDir()), func(ctx context.Context) (int, []string, error) {
		started <- struct{}{}
		<-release
		return int(calls.Add(1)), nil, nil
	})

	done := make(chan error)
	go func() { done <- s.Refresh(context.Background()) }()
	<-started
	if !s.Warming() {
		t.Errorf("Warming() should be true while fetching")
	}
	s.Invalidate(context.Background())
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	s.Wait()

	if got := calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want a second fetch after the invalidation", got)
	}
	if s.Warming() {
		t.Errorf("Warming() should be false once idle")
	}
}

func TestStoreUpdate(t *testing.T) {
	c := new(counter)
	s, dir := newTestStore(t, c)
	if s.Update(func(v int) int { return v + 1 }) {
		t.Errorf("Update() on an empty store should report false")
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Get()
	if !s.Update(func(v int) int { return v + 10 }) {
		t.Fatalf("Update() should report true")
	}
	s.Wait()

	after, _ := s.Get()
	if after.Data != 11 || after.Timestamp != before.Timestamp {
		t.Errorf("Update() = %+v, want data 11 with the same timestamp as %+v", after, before)
	}
	b, err := dir.Read(context.Background(), "test_cache.json")
	if err != nil {
		t.Fatal(err)
	}
	var disk Snapshot[int]
	if err := json.Unmarshal(b, &disk); err != nil {
		t.Fatal(err)
	}
	if disk.Data != 11 {
		t.Errorf("write-back data = %d, want 11", disk.Data)
	}
}

func TestStoreGetOrFetch(t *testing.T) {
	c := new(counter)
	s, dir := newTestStore(t, c)
	ctx := context.Background()

	writeSnapshot(t, dir, time.Now().Add(-time.Minute), 7)
	snap, err := s.GetOrFetch(ctx)
	if err != nil || snap.Data != 7 {
		t.Fatalf("GetOrFetch() = %+v, %v; want the disk copy", snap, err)
	}
	if c.calls.Load() != 0 {
		t.Errorf("GetOrFetch() should not fetch when the disk copy is fresh")
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	snap, err = s.GetOrFetch(ctx)
	if err != nil || snap.Data != 1 {
		t.Fatalf("GetOrFetch() = %+v, %v; want a network fetch", snap, err)
	}
}

func TestStoreRefreshOutlivesCaller(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	s := NewStore("test_cache.json", time.Hour, DirBlob(t.TempDir()), func(ctx context.Context) (int, []string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		case <-release:
			return 5, nil, nil
		}
	})

	reqCtx, cancel := context.WithCancel(context.Background())
	request := make(chan error)
	go func() { request <- s.Refresh(reqCtx) }()
	<-started

	warmer := make(chan error)
	go func() { warmer <- s.Refresh(context.Background()) }()
	time.Sleep(20 * time.Millisecond) // let the warmer join the running fetch

	cancel()
	if err := <-request; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller got %v, want context.Canceled", err)
	}
	if !s.Warming() {
		t.Errorf("the fetch should keep running after a caller gave up")
	}
	close(release)
	if err := <-warmer; err != nil {
		t.Fatalf("joined refresh failed: %v", err)
	}
	if snap, ok := s.Get(); !ok || snap.Data != 5 {
		t.Errorf("Get() = %+v, %v; want the fetched data", snap, ok)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

// waitCalls polls c until it reached n calls or the timeout expired.
func waitCalls(c *counter, n int32, timeout time.Duration) bool {
	for deadline := time.Now().Add(timeout); time.Now().Before(deadline); time.Sleep(5 * time.Millisecond) {
		if c.calls.Load() >= n {
			return true
		}
	}
	return false
}

func TestStoreRun(t *testing.T) {
	const ttl = 300 * time.Millisecond
	tests := []struct {
		name  string
		seed  func(t *testing.T, s *Store[int], dir DirBlob)
		fail  bool
		early int32 // calls shortly after start
		later int32 // calls reached once the TTL elapsed
	}{
		{
			name:  "fresh disk copy is used until it expires",
			seed:  func(t *testing.T, s *Store[int], dir DirBlob) { writeSnapshot(t, dir, time.Now(), 3) },
			early: 0,
			later: 1,
		},
		{
			name:  "empty store fetches at start",
			seed:  func(t *testing.T, s *Store[int], dir DirBlob) {},
			early: 1,
			later: 2,
		},
		{
			name:  "stale disk copy fetches at start",
			seed:  func(t *testing.T, s *Store[int], dir DirBlob) { writeSnapshot(t, dir, time.Now().Add(-2*ttl), 3) },
			early: 1,
			later: 2,
		},
		{
			name: "failed fetch waits a full TTL",
			seed: func(t *testing.T, s *Store[int], dir DirBlob) {
				s.snap = &Snapshot[int]{Timestamp: unixSeconds(time.Now().Add(-2 * ttl)), Data: 1}
			},
			fail:  true,
			early: 1,
			later: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &counter{fail: tt.fail}
			dir := DirBlob(t.TempDir())
			s := NewStore("test_cache.json", ttl, dir, c.fetch)
			tt.seed(t, s, dir)

			ctx, cancel := context.WithCancel(context.Background())
			stopped := make(chan struct{})
			go func() {
				defer close(stopped)
				s.Run(ctx)
			}()
			defer func() {
				cancel()
				<-stopped
				s.Wait()
			}()

			time.Sleep(ttl / 3)
			if got := c.calls.Load(); got != tt.early {
				t.Fatalf("fetch calls after %v = %d, want %d", ttl/3, got, tt.early)
			}
			if !waitCalls(c, tt.later, 3*ttl) {
				t.Fatalf("fetch calls = %d, want %d after the TTL", c.calls.Load(), tt.later)
			}
		})
	}
}

func TestStoreRunStopsOnCancel(t *testing.T) {
	c := new(counter)
	s, dir := newTestStore(t, c)
	writeSnapshot(t, dir, time.Now(), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)

	if c.calls.Load() != 0 {
		t.Errorf("Run() should use the fresh disk copy instead of fetching")
	}
	if snap, ok := s.Get(); !ok || snap.Data != 3 {
		t.Errorf("Get() = %+v, %v", snap, ok)
	}
}

func TestDirBlob(t *testing.T) {
	dir := DirBlob(filepath.Join(t.TempDir(), "nested"))
	ctx := context.Background()
	if _, err := dir.Read(ctx, "x.json"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Read() of a missing file = %v, want ErrNotExist", err)
	}
	if err := dir.Remove(ctx, "x.json"); err != nil {
		t.Errorf("Remove() of a missing file = %v", err)
	}
	if err := dir.Write(ctx, "x.json", []byte("1")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if err := dir.Write(ctx, "x.json", []byte("2")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	b, err := dir.Read(ctx, "x.json")
	if err != nil || string(b) != "2" {
		t.Errorf("Read() = %q, %v", b, err)
	}
	entries, _ := os.ReadDir(string(dir))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}
