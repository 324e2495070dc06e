// Package worker runs batches of independent tasks on a bounded goroutine
// pool.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/marathon/pkg/logger"
	"github.com/panjf2000/ants/v2"
)

const poolReleaseTimeout = 5 * time.Second

// Task is one unit of work submitted to the pool.
type Task func(ctx context.Context) error

// Pool bounds how many tasks run at once.
type Pool struct {
	name   string
	size   int
	pool   *ants.Pool
	logger logger.Logger

	mu       sync.Mutex
	released bool
}

// NewPool creates a pool running at most size tasks concurrently. A size
// below one defaults to the number of CPUs.
func NewPool(size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{
		name:   "worker-pool",
		size:   size,
		logger: logger.Get(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(p.name)

	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(v any) {
		p.logger.Error(context.Background(), "task panic", logger.Any("panic", v))
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolCreate, err)
	}
	p.pool = pool
	return p, nil
}

// Size returns the pool capacity.
func (p *Pool) Size() int { return p.size }

// Running returns the number of tasks currently executing.
func (p *Pool) Running() int { return p.pool.Running() }

// Run executes every task and waits for all of them. The error at index i
// belongs to tasks[i]; a task that panics reports ErrTaskPanic.
func (p *Pool) Run(ctx context.Context, tasks []Task) []error {
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("%w: %v", ErrTaskPanic, r)
					p.logger.Error(ctx, "task panic", logger.Int("task", i), logger.Any("panic", r))
				}
			}()
			errs[i] = task(ctx)
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("%w: %w", ErrSubmit, err)
		}
	}
	wg.Wait()
	return errs
}

// Release stops the pool. It is safe to call more than once.
func (p *Pool) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true
	if err := p.pool.ReleaseTimeout(poolReleaseTimeout); err != nil {
		p.logger.Warn(context.Background(), "pool release timed out", logger.Error(err))
	}
}
