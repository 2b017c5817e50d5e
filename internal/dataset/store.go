// Package dataset owns the session-wide cache of the loaded raw tables.
//
// The raw tables are read once per session and reused across every view
// render; aggregates are always recomputed from them, never cached. The cache
// is an explicit object with a Snapshot/Invalidate contract rather than
// ambient global state, and invalidation only happens on an explicit refresh;
// there is no filesystem watching.
package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"growlab/pkg/contracts/domain"
)

// EnvironmentSource loads the per-school environment tables.
type EnvironmentSource interface {
	Load() (map[domain.School][]domain.EnvironmentRecord, error)
}

// GrowthSource loads the per-school growth tables.
type GrowthSource interface {
	Load() (map[domain.School][]domain.GrowthRecord, error)
}

// Snapshot is one immutable load of both raw tables. Holders must treat the
// maps as read-only; the store hands the same snapshot to every caller until
// invalidation.
type Snapshot struct {
	Environment map[domain.School][]domain.EnvironmentRecord
	Growth      map[domain.School][]domain.GrowthRecord
	LoadedAt    time.Time
}

// EnvironmentSchools returns the schools with loaded environment data, in the
// fixed presentation order.
func (s *Snapshot) EnvironmentSchools() []domain.School {
	var schools []domain.School
	for _, info := range domain.Schools {
		if _, ok := s.Environment[info.Name]; ok {
			schools = append(schools, info.Name)
		}
	}
	return schools
}

// SkippedSchools returns the fixed-set schools with no environment data, so
// views can state explicitly what was omitted.
func (s *Snapshot) SkippedSchools() []domain.School {
	var skipped []domain.School
	for _, info := range domain.Schools {
		if _, ok := s.Environment[info.Name]; !ok {
			skipped = append(skipped, info.Name)
		}
	}
	return skipped
}

// Stats reports cache behavior for the health endpoint.
type Stats struct {
	Loaded        bool      `json:"loaded"`
	LoadedAt      time.Time `json:"loaded_at"`
	Loads         int64     `json:"loads"`
	Hits          int64     `json:"hits"`
	Failures      int64     `json:"failures"`
	Invalidations int64     `json:"invalidations"`
}

// Store caches the loaded tables for the lifetime of the session. Concurrent
// first requests collapse into a single load via singleflight; a failed load
// is never cached, so the next request retries.
type Store struct {
	envSource    EnvironmentSource
	growthSource GrowthSource
	logger       *slog.Logger

	mu      sync.RWMutex
	current *Snapshot
	stats   Stats

	group singleflight.Group
}

// NewStore creates a dataset store over the two loaders.
func NewStore(envSource EnvironmentSource, growthSource GrowthSource, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		envSource:    envSource,
		growthSource: growthSource,
		logger:       logger.With(slog.String("component", "dataset_store")),
	}
}

// Snapshot returns the cached tables, loading them on first use. The context
// bounds the caller's patience, not the load itself: a load that already
// started completes in the background and is cached for the next caller.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	if snap := s.current; snap != nil {
		s.mu.RUnlock()
		s.recordHit()
		return snap, nil
	}
	s.mu.RUnlock()

	ch := s.group.DoChan("load", func() (interface{}, error) {
		return s.load()
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate drops the cached tables. The next Snapshot call reloads from
// disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.stats.Loaded = false
	s.stats.Invalidations++
	datasetInvalidations.Inc()
	s.logger.Info("dataset cache invalidated")
}

// Stats returns a copy of the cache statistics.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Store) load() (*Snapshot, error) {
	start := time.Now()

	env, err := s.envSource.Load()
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	growth, err := s.growthSource.Load()
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	snap := &Snapshot{
		Environment: env,
		Growth:      growth,
		LoadedAt:    time.Now(),
	}

	s.mu.Lock()
	s.current = snap
	s.stats.Loaded = true
	s.stats.LoadedAt = snap.LoadedAt
	s.stats.Loads++
	s.mu.Unlock()
	datasetLoads.Inc()

	s.logger.Info("dataset loaded",
		slog.Int("environment_schools", len(env)),
		slog.Int("growth_sheets", len(growth)),
		slog.Duration("duration", time.Since(start)))

	return snap, nil
}

func (s *Store) recordHit() {
	s.mu.Lock()
	s.stats.Hits++
	s.mu.Unlock()
	datasetHits.Inc()
}

func (s *Store) recordFailure(err error) {
	s.mu.Lock()
	s.stats.Failures++
	s.mu.Unlock()
	datasetFailures.Inc()
	s.logger.Error("dataset load failed", slog.String("error", err.Error()))
}
