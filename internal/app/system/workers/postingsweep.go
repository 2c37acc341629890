// internal/app/system/workers/postingsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Sweeper persists deadline/capacity status changes for one kind of posting.
type Sweeper interface {
	SweepStatuses(ctx context.Context, now time.Time) (closed, filled int64, err error)
}

// PostingSweep periodically moves Active postings past their deadline to
// Closed and those at capacity to Filled.
type PostingSweep struct {
	sweepers map[string]Sweeper
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewPostingSweep creates the worker. sweepers is keyed by a name used in logs
// ("jobs", "internships").
func NewPostingSweep(sweepers map[string]Sweeper, logger *zap.Logger, interval time.Duration) *PostingSweep {
	return &PostingSweep{
		sweepers: sweepers,
		log:      logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Name implements Worker.
func (w *PostingSweep) Name() string { return "posting-sweep" }

// Start runs one sweep immediately and then one per interval.
func (w *PostingSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("posting sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *PostingSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("posting sweep worker stopped")
}

func (w *PostingSweep) run() {
	defer w.wg.Done()

	w.SweepOnce()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}

// SweepOnce runs every sweeper once.
func (w *PostingSweep) SweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
	defer cancel()

	now := w.now()
	for name, s := range w.sweepers {
		closed, filled, err := s.SweepStatuses(ctx, now)
		if err != nil {
			w.log.Error("posting sweep failed", zap.String("kind", name), zap.Error(err))
			continue
		}
		if closed > 0 || filled > 0 {
			w.log.Info("posting statuses updated",
				zap.String("kind", name),
				zap.Int64("closed", closed),
				zap.Int64("filled", filled))
		}
	}
}
