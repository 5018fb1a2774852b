package ystocker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

// FetchFunc retrieves a fresh dataset. errs lists partial failures that did
// not prevent building the dataset, err a complete failure.
type FetchFunc[T any] func(ctx context.Context) (data T, errs []string, err error)

// Snapshot is a dataset as it is kept in memory and persisted.
type Snapshot[T any] struct {
	Timestamp float64  `json:"timestamp"` // unix seconds
	Errors    []string `json:"errors"`
	Data      T        `json:"data"`
}

// Time returns the snapshot timestamp.
func (s Snapshot[T]) Time() time.Time {
	sec, frac := math.Modf(s.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9))
}

func unixSeconds(t time.Time) float64 { return float64(t.UnixNano()) / 1e9 }

// Store is a two-layer cache of a dataset: memory, then a blob. A snapshot
// older than TTL is stale.
//
// At most one fetch runs at a time, readers only ever see complete
// snapshots.
type Store[T any] struct {
	Name  string // blob name, e.g. "ticker_cache.json"
	TTL   time.Duration
	Blob  Blob
	Fetch FetchFunc[T]

	now    func() time.Time
	flight singleflight.Group
	wg     sync.WaitGroup

	mu      sync.Mutex
	snap    *Snapshot[T]
	warming bool
	dirty   bool // invalidated while a fetch was running
	bg      context.Context
}

// NewStore returns an empty store.
func NewStore[T any](name string, ttl time.Duration, blob Blob, fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{Name: name, TTL: ttl, Blob: blob, Fetch: fetch}
}

func (s *Store[T]) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Store[T]) logger() *log.Entry { return log.WithField("cache", s.Name) }

func (s *Store[T]) background() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bg == nil {
		return context.Background()
	}
	return s.bg
}

// Get returns the snapshot in memory, if any.
func (s *Store[T]) Get() (Snapshot[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return Snapshot[T]{}, false
	}
	return *s.snap, true
}

// LastUpdated returns the time the snapshot in memory was fetched.
func (s *Store[T]) LastUpdated() (time.Time, bool) {
	snap, ok := s.Get()
	if !ok {
		return time.Time{}, false
	}
	return snap.Time(), true
}

// Age returns how old the snapshot in memory is.
func (s *Store[T]) Age() (time.Duration, bool) {
	ts, ok := s.LastUpdated()
	if !ok {
		return 0, false
	}
	return s.clock().Sub(ts), true
}

// Fresh reports whether the snapshot in memory exists and is not stale.
func (s *Store[T]) Fresh() bool {
	age, ok := s.Age()
	return ok && age < s.TTL
}

// Warming reports whether a fetch is running.
func (s *Store[T]) Warming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warming
}

// Load reads the persisted snapshot into memory if it is fresh.
func (s *Store[T]) Load(ctx context.Context) bool {
	l := s.logger()
	b, err := s.Blob.Read(ctx, s.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		l.WithError(err).Error("failed to read disk cache, will re-fetch")
		return false
	}
	var snap Snapshot[T]
	if err := json.Unmarshal(b, &snap); err != nil {
		l.WithError(err).Error("failed to decode disk cache, will re-fetch")
		return false
	}
	age := s.clock().Sub(snap.Time())
	if age > s.TTL {
		l.WithField("age", age.Round(time.Minute)).Info("disk cache is stale, will re-fetch")
		return false
	}
	s.mu.Lock()
	s.snap = &snap
	s.mu.Unlock()
	l.WithField("age", age.Round(time.Minute)).Info("loaded disk cache")
	return true
}

// Refresh fetches the dataset, replaces the memory snapshot and persists it.
// Concurrent calls share the same fetch. The fetch is not cancelled with
// ctx: a caller that gives up returns ctx.Err() while the others keep
// waiting for the result.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.warming = true
	s.mu.Unlock()
	ch := s.flight.DoChan("refresh", func() (any, error) {
		return nil, s.refreshLoop(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refreshLoop fetches until no invalidation happened during the last fetch.
func (s *Store[T]) refreshLoop(ctx context.Context) error {
	for {
		s.mu.Lock()
		s.warming = true
		s.mu.Unlock()

		err := s.refresh(ctx)

		s.mu.Lock()
		again := s.dirty
		s.dirty = false
		if !again {
			s.flight.Forget("refresh")
			s.warming = false
		}
		s.mu.Unlock()
		if !again {
			return err
		}
		s.logger().Info("invalidated during fetch, fetching again")
	}
}

func (s *Store[T]) refresh(ctx context.Context) error {
	l := s.logger()
	l.Info("fetch started")
	start := time.Now()
	data, errs, err := s.Fetch(ctx)
	if err != nil {
		l.WithError(err).Error("fetch failed")
		return fmt.Errorf("refresh %s: %w", s.Name, err)
	}
	if errs == nil {
		errs = []string{}
	}
	for _, e := range errs {
		l.Warnf("fetch error: %s", e)
	}
	snap := &Snapshot[T]{Timestamp: unixSeconds(s.clock()), Errors: errs, Data: data}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	l.WithFields(log.Fields{
		"elapsed": time.Since(start).Round(time.Millisecond),
		"errors":  len(errs),
	}).Info("fetch done")

	if err := s.save(ctx, snap); err != nil {
		l.WithError(err).Error("failed to save cache")
	}
	return nil
}

func (s *Store[T]) save(ctx context.Context, snap *Snapshot[T]) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.Blob.Write(ctx, s.Name, b); err != nil {
		return err
	}
	s.logger().Debug("cache saved")
	return nil
}

// spawn starts a background refresh.
func (s *Store[T]) spawn() {
	ctx := s.background()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Refresh(ctx)
	}()
}

// GetOrFetch returns the freshest snapshot available: memory, then the
// persisted copy, then the network.
func (s *Store[T]) GetOrFetch(ctx context.Context) (Snapshot[T], error) {
	if s.Fresh() {
		snap, _ := s.Get()
		return snap, nil
	}
	if !s.Load(ctx) {
		if err := s.Refresh(ctx); err != nil {
			return Snapshot[T]{}, err
		}
	}
	snap, ok := s.Get()
	if !ok {
		return Snapshot[T]{}, fmt.Errorf("%s: %w", s.Name, ErrNotFound)
	}
	return snap, nil
}

// Invalidate drops the memory and persisted snapshots, and starts a
// background refresh unless one is already running. A running fetch is
// followed by another one.
func (s *Store[T]) Invalidate(ctx context.Context) {
	l := s.logger()
	if err := s.Blob.Remove(ctx, s.Name); err != nil {
		l.WithError(err).Error("could not delete disk cache")
	}
	s.mu.Lock()
	already := s.warming
	s.snap = nil
	if already {
		s.dirty = true
	} else {
		s.warming = true
	}
	s.mu.Unlock()
	if already {
		l.Info("cache invalidated (fetch already in progress)")
		return
	}
	l.Info("cache invalidated, spawning background re-fetch")
	s.spawn()
}

// Update replaces the memory snapshot data with fn(data), keeping its
// timestamp, and writes it through in the background. It reports false
// when there is no snapshot to update.
func (s *Store[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	if s.snap == nil {
		s.mu.Unlock()
		return false
	}
	snap := &Snapshot[T]{
		Timestamp: s.snap.Timestamp,
		Errors:    s.snap.Errors,
		Data:      fn(s.snap.Data),
	}
	s.snap = snap
	s.mu.Unlock()

	ctx := s.background()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.save(ctx, snap); err != nil {
			s.logger().WithError(err).Error("write-back failed")
		}
	}()
	return true
}

// Wait blocks until every background refresh and write-back has returned.
func (s *Store[T]) Wait() { s.wg.Wait() }

// Run keeps the store warm until ctx is done: it loads a fresh persisted
// snapshot or fetches one, then refreshes it each time it expires. After a
// failed fetch it waits a full TTL.
func (s *Store[T]) Run(ctx context.Context) {
	s.mu.Lock()
	s.bg = ctx
	s.mu.Unlock()
	l := s.logger()
	l.WithField("ttl", s.TTL).Info("cache warmer started")

	failed := false
	if !s.Load(ctx) {
		failed = s.Refresh(ctx) != nil
	}
	for {
		wait := s.TTL
		if age, ok := s.Age(); ok && !failed {
			wait = max(s.TTL-age, 0)
		}
		l.WithField("in", wait.Round(time.Second)).Info("next cache refresh")
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		if s.Fresh() {
			failed = false
			continue
		}
		failed = s.Refresh(ctx) != nil
	}
}
