// internal/app/system/workers/requestcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/bughub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pruner deletes membership records that were resolved before cutoff.
// The group requests store satisfies it.
type Pruner interface {
	PruneResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RequestCleanup periodically removes accepted and rejected membership
// records older than the retention period. Pending records are never
// touched.
type RequestCleanup struct {
	store     Pruner
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewRequestCleanup creates the worker. Call Start to begin.
func NewRequestCleanup(store Pruner, logger *zap.Logger, interval, retention time.Duration) *RequestCleanup {
	return &RequestCleanup{
		store:     store,
		log:       logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start runs one pass immediately, then one per interval.
func (w *RequestCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("request cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *RequestCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("request cleanup worker stopped")
	})
}

func (w *RequestCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.cleanup()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *RequestCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	cutoff := w.now().UTC().Add(-w.retention)
	count, err := w.store.PruneResolvedBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune resolved requests", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("pruned resolved requests",
			zap.Int64("count", count),
			zap.Time("cutoff", cutoff))
	}
}
