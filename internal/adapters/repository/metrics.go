package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/marathon/internal/domain/model"
	"github.com/okian/marathon/pkg/metrics"
)

var collections = []string{model.CollectionRunners, model.CollectionSponsors, model.CollectionRefreshments}

// observe records the latency of one store operation.
func observe(driver, op string, start time.Time) {
	metrics.RecordStoreLatency(driver, op, float64(time.Since(start).Microseconds())/1000)
}

// sizeReporter periodically publishes collection sizes for a store.
type sizeReporter struct {
	wg       sync.WaitGroup
	stopChan chan struct{}
	once     sync.Once
}

func (r *sizeReporter) start(ctx context.Context, s Store, interval time.Duration) {
	r.stopChan = make(chan struct{})
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		reportSizes(ctx, s)
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopChan:
				return
			case <-ticker.C:
				reportSizes(ctx, s)
			}
		}
	}()
}

func (r *sizeReporter) stop() {
	r.once.Do(func() {
		if r.stopChan != nil {
			close(r.stopChan)
		}
	})
	r.wg.Wait()
}

func reportSizes(ctx context.Context, s Store) {
	for _, c := range collections {
		n, err := s.Count(ctx, c)
		if err != nil {
			continue
		}
		metrics.UpdateCollectionSize(c, n)
	}
}
