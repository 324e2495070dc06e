// Package service provides the reporting service behind the HTTP API and
// the command line: the query catalog, runner mutations and first-run
// seeding over an injected store.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/marathon/internal/adapters/repository"
	"github.com/okian/marathon/internal/adapters/worker"
	"github.com/okian/marathon/internal/domain/catalog"
	"github.com/okian/marathon/internal/domain/model"
	"github.com/okian/marathon/internal/domain/seed"
	"github.com/okian/marathon/pkg/logger"
	"github.com/okian/marathon/pkg/metrics"
)

// Mutation operation names used in logs and metrics.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Service implements the API dependencies for the reporting system.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	pool  *worker.Pool

	// Configuration
	reportWorkers int
	seedOnStart   bool

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the store the service reads and writes. The caller keeps
// ownership and closes it after Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReportWorkers bounds how many queries a report runs at once.
func WithReportWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.reportWorkers = n
		}
	}
}

// WithSeedOnStart controls whether Start seeds an empty store.
func WithSeedOnStart(enabled bool) Option {
	return func(s *Service) {
		s.seedOnStart = enabled
	}
}

// New constructs a new Service with default configuration. The global
// logger must be initialized first.
func New(opts ...Option) *Service {
	s := &Service{
		reportWorkers: runtime.NumCPU(),
		seedOnStart:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start seeds the store when enabled and starts the report pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}

	s.logger.Info(ctx, "starting reporting service...", logger.String("driver", s.store.Driver()))

	if s.seedOnStart {
		if _, err := s.seed(ctx); err != nil {
			return err
		}
	}

	pool, err := worker.NewPool(s.reportWorkers, worker.WithName("report-pool"), worker.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.pool = pool

	s.started = true
	s.logger.Info(ctx, "reporting service started",
		logger.Int("reportWorkers", s.reportWorkers),
		logger.Bool("seedOnStart", s.seedOnStart),
	)
	return nil
}

// Stop releases the report pool. The store is left open for its owner.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping reporting service...")
	if s.pool != nil {
		s.pool.Release()
		s.pool = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "reporting service stopped")
}

// Seed inserts the sample race when the runners collection is empty and
// reports whether it did.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, ErrNoStore
	}
	return s.seed(ctx)
}

func (s *Service) seed(ctx context.Context) (bool, error) {
	const op = "service.seed"

	n, err := s.store.Count(ctx, model.CollectionRunners)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		s.logger.Debug(ctx, "store already populated, skipping seed", logger.Int("runners", n))
		return false, nil
	}
	if err := s.store.Seed(ctx, seed.Runners(), seed.Sponsors(), seed.Stalls()); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordSeed()
	s.logger.Info(ctx, "seeded sample data")
	return true, nil
}

// Queries returns the catalog in selector order.
func (s *Service) Queries() []catalog.Query {
	return catalog.All()
}

// RunQuery executes catalog query n against the current store contents.
func (s *Service) RunQuery(ctx context.Context, n int) (catalog.Result, error) {
	q, err := catalog.Lookup(n)
	if err != nil {
		return catalog.Result{}, err
	}
	return s.Run(ctx, q)
}

// Run executes q against the collections it reads.
func (s *Service) Run(ctx context.Context, q catalog.Query) (catalog.Result, error) {
	label := strconv.Itoa(q.Number)
	if s.store == nil {
		metrics.RecordQueryError(label)
		return catalog.Result{}, ErrNoStore
	}

	start := time.Now()
	d, err := s.load(ctx, q.Reads)
	if err != nil {
		metrics.RecordQueryError(label)
		return catalog.Result{}, fmt.Errorf("service.query %d: %w", q.Number, err)
	}
	res := q.Run(d)
	metrics.RecordQueryExecution(label, float64(time.Since(start).Microseconds())/1000, res.Count)
	return res, nil
}

// load reads the named collections into a dataset.
func (s *Service) load(ctx context.Context, reads []string) (catalog.Dataset, error) {
	var (
		d   catalog.Dataset
		err error
	)
	for _, c := range reads {
		switch c {
		case model.CollectionRunners:
			d.Runners, err = s.store.Runners(ctx)
		case model.CollectionSponsors:
			d.Sponsors, err = s.store.Sponsors(ctx)
		case model.CollectionRefreshments:
			d.Stalls, err = s.store.Stalls(ctx)
		default:
			err = fmt.Errorf("%w: %q", repository.ErrUnknownCollection, c)
		}
		if err != nil {
			return catalog.Dataset{}, err
		}
	}
	return d, nil
}

// Report runs every catalog query on the report pool. Results are returned
// in selector order; the first failure is returned as the error.
func (s *Service) Report(ctx context.Context) ([]catalog.Result, error) {
	s.mu.RLock()
	pool := s.pool
	s.mu.RUnlock()
	if pool == nil {
		return nil, ErrNotStarted
	}

	start := time.Now()
	queries := catalog.All()
	results := make([]catalog.Result, len(queries))
	tasks := make([]worker.Task, len(queries))
	for i, q := range queries {
		tasks[i] = func(ctx context.Context) error {
			res, err := s.Run(ctx, q)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		}
	}
	if err := errors.Join(pool.Run(ctx, tasks)...); err != nil {
		return nil, fmt.Errorf("service.report: %w", err)
	}
	metrics.RecordReportLatency(float64(time.Since(start).Microseconds()) / 1000)
	return results, nil
}

// AllRunners returns every runner record.
func (s *Service) AllRunners(ctx context.Context) ([]model.Runner, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	runners, err := s.store.Runners(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.all_runners: %w", err)
	}
	return runners, nil
}

// InsertRunner appends r without validation.
func (s *Service) InsertRunner(ctx context.Context, r model.Runner) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.InsertRunner(ctx, r); err != nil {
		return s.mutationFailed(ctx, OpInsert, r.BibNumber, err)
	}
	s.mutated(ctx, OpInsert, r.BibNumber, true)
	return nil
}

// UpdateRunner merges p into the first runner with bib. An unmatched bib is
// not an error; matched reports whether a record was found.
func (s *Service) UpdateRunner(ctx context.Context, bib string, p model.RunnerPatch) (matched bool, err error) {
	if s.store == nil {
		return false, ErrNoStore
	}
	matched, err = s.store.UpdateRunner(ctx, bib, p)
	if err != nil {
		return false, s.mutationFailed(ctx, OpUpdate, bib, err)
	}
	s.mutated(ctx, OpUpdate, bib, matched)
	return matched, nil
}

// DeleteRunner removes the first runner with bib. An unmatched bib is not
// an error.
func (s *Service) DeleteRunner(ctx context.Context, bib string) (matched bool, err error) {
	if s.store == nil {
		return false, ErrNoStore
	}
	matched, err = s.store.DeleteRunner(ctx, bib)
	if err != nil {
		return false, s.mutationFailed(ctx, OpDelete, bib, err)
	}
	s.mutated(ctx, OpDelete, bib, matched)
	return matched, nil
}

func (s *Service) mutated(ctx context.Context, op, bib string, matched bool) {
	metrics.RecordMutation(op)
	s.logger.Debug(ctx, "runner "+op,
		logger.String("bib_number", bib),
		logger.Bool("matched", matched),
	)
}

func (s *Service) mutationFailed(ctx context.Context, op, bib string, err error) error {
	metrics.RecordMutationError(op)
	s.logger.Error(ctx, "runner "+op+" failed",
		logger.String("bib_number", bib),
		logger.Error(err),
	)
	return fmt.Errorf("service.%s: %w", op, err)
}

// Counts returns the size of every collection.
func (s *Service) Counts(ctx context.Context) (map[string]int, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	out := make(map[string]int, 3)
	for _, c := range []string{model.CollectionRunners, model.CollectionSponsors, model.CollectionRefreshments} {
		n, err := s.store.Count(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("service.counts: %w", err)
		}
		out[c] = n
		metrics.UpdateCollectionSize(c, n)
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	pool := s.pool
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       started,
		"reportWorkers": s.reportWorkers,
		"queries":       catalog.Size(),
	}
	if s.store != nil {
		stats["driver"] = s.store.Driver()
	}
	if pool != nil {
		stats["reportRunning"] = pool.Running()
	}
	if started {
		if counts, err := s.Counts(context.Background()); err == nil {
			for c, n := range counts {
				stats[c] = n
			}
		}
	}
	return stats
}
