package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/marathon/internal/adapters/worker"
	logging "github.com/okian/marathon/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(); err != nil {
		panic(err)
	}
}

func TestPool_Run(t *testing.T) {
	convey.Convey("Given a pool of two workers", t, func() {
		pool, err := worker.NewPool(2, worker.WithName("test-pool"))
		convey.So(err, convey.ShouldBeNil)
		defer pool.Release()

		convey.So(pool.Size(), convey.ShouldEqual, 2)

		convey.Convey("When running a batch of tasks", func() {
			var (
				active  int32
				maxSeen int32
				done    int32
			)
			tasks := make([]worker.Task, 8)
			for i := range tasks {
				tasks[i] = func(ctx context.Context) error {
					n := atomic.AddInt32(&active, 1)
					for {
						m := atomic.LoadInt32(&maxSeen)
						if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					atomic.AddInt32(&active, -1)
					atomic.AddInt32(&done, 1)
					return nil
				}
			}
			errs := pool.Run(context.Background(), tasks)

			convey.Convey("Then every task should complete without error", func() {
				convey.So(atomic.LoadInt32(&done), convey.ShouldEqual, 8)
				for _, e := range errs {
					convey.So(e, convey.ShouldBeNil)
				}
			})

			convey.Convey("And concurrency should stay within the pool size", func() {
				convey.So(atomic.LoadInt32(&maxSeen), convey.ShouldBeLessThanOrEqualTo, 2)
			})
		})

		convey.Convey("When tasks fail or panic", func() {
			boom := errors.New("boom")
			errs := pool.Run(context.Background(), []worker.Task{
				func(context.Context) error { return nil },
				func(context.Context) error { return boom },
				func(context.Context) error { panic("kaboom") },
			})

			convey.Convey("Then errors should line up with their tasks", func() {
				convey.So(errs[0], convey.ShouldBeNil)
				convey.So(errors.Is(errs[1], boom), convey.ShouldBeTrue)
				convey.So(errors.Is(errs[2], worker.ErrTaskPanic), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			errs := pool.Run(ctx, []worker.Task{func(context.Context) error { return nil }})

			convey.Convey("Then tasks should not start", func() {
				convey.So(errors.Is(errs[0], context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPool_Defaults(t *testing.T) {
	convey.Convey("Given a non-positive size", t, func() {
		pool, err := worker.NewPool(0)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the pool should default to at least one worker", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("And releasing twice should be safe", func() {
			pool.Release()
			pool.Release()
		})
	})
}
