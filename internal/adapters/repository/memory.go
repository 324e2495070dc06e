package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/marathon/internal/domain/model"
)

// DriverMemory is the driver name of MemoryStore.
const DriverMemory = "memory"

// MemoryStore keeps the collections in process memory. State is lost on
// exit; it backs tests and single-process demos.
type MemoryStore struct {
	mu       sync.RWMutex
	runners  []model.Runner
	sponsors []model.Sponsor
	stalls   []model.Stall
	closed   bool

	reporter sizeReporter
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &MemoryStore{}
	s.reporter.start(ctx, s, o.metricsUpdateInterval)
	return s
}

// Driver implements Store.
func (s *MemoryStore) Driver() string { return DriverMemory }

// Runners implements Store.
func (s *MemoryStore) Runners(ctx context.Context) ([]model.Runner, error) {
	defer observe(DriverMemory, "find", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Runner, 0, len(s.runners))
	for _, r := range s.runners {
		out = append(out, r.Clone())
	}
	return out, nil
}

// Sponsors implements Store.
func (s *MemoryStore) Sponsors(ctx context.Context) ([]model.Sponsor, error) {
	defer observe(DriverMemory, "find", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Sponsor, 0, len(s.sponsors))
	for _, sp := range s.sponsors {
		sp.Categories = slices.Clone(sp.Categories)
		out = append(out, sp)
	}
	return out, nil
}

// Stalls implements Store.
func (s *MemoryStore) Stalls(ctx context.Context) ([]model.Stall, error) {
	defer observe(DriverMemory, "find", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return append(make([]model.Stall, 0, len(s.stalls)), s.stalls...), nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	switch collection {
	case model.CollectionRunners:
		return len(s.runners), nil
	case model.CollectionSponsors:
		return len(s.sponsors), nil
	case model.CollectionRefreshments:
		return len(s.stalls), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
}

// InsertRunner implements Store.
func (s *MemoryStore) InsertRunner(ctx context.Context, r model.Runner) error {
	defer observe(DriverMemory, "insert", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.runners = append(s.runners, r.Clone())
	return nil
}

// UpdateRunner implements Store.
func (s *MemoryStore) UpdateRunner(ctx context.Context, bib string, p model.RunnerPatch) (bool, error) {
	defer observe(DriverMemory, "update", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	i := s.indexOf(bib)
	if i < 0 {
		return false, nil
	}
	p.Apply(&s.runners[i])
	return true, nil
}

// DeleteRunner implements Store.
func (s *MemoryStore) DeleteRunner(ctx context.Context, bib string) (bool, error) {
	defer observe(DriverMemory, "delete", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	i := s.indexOf(bib)
	if i < 0 {
		return false, nil
	}
	s.runners = slices.Delete(s.runners, i, i+1)
	return true, nil
}

// indexOf returns the position of the first runner with bib (lock held).
func (s *MemoryStore) indexOf(bib string) int {
	return slices.IndexFunc(s.runners, func(r model.Runner) bool { return r.BibNumber == bib })
}

// Seed implements Store.
func (s *MemoryStore) Seed(ctx context.Context, runners []model.Runner, sponsors []model.Sponsor, stalls []model.Stall) error {
	defer observe(DriverMemory, "seed", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, r := range runners {
		s.runners = append(s.runners, r.Clone())
	}
	for _, sp := range sponsors {
		sp.Categories = slices.Clone(sp.Categories)
		s.sponsors = append(s.sponsors, sp)
	}
	s.stalls = append(s.stalls, stalls...)
	return nil
}

// Close stops the metrics updater. Further calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.reporter.stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
