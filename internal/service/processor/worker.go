package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/domain"
)

type batchRunner interface {
	RunBatch(ctx context.Context) (BatchResult, error)
}

type maintainer interface {
	ReclaimStale(ctx context.Context) (int64, error)
	Sweep(ctx context.Context, maxAgeDays int) (int64, error)
	Stats(ctx context.Context) (domain.JobStats, error)
}

// maxDrainBatches bounds back-to-back batches within one wake-up so the
// maintenance tickers still get a turn under sustained load.
const maxDrainBatches = 20

// Worker is the long-running processing loop.
type Worker struct {
	batches   batchRunner
	queue     maintainer
	scheduler *Scheduler
	cfg       config.QueueConfig
	log       *slog.Logger
}

// NewWorker creates a Worker.
func NewWorker(log *slog.Logger, batches batchRunner, queue maintainer, scheduler *Scheduler, cfg config.QueueConfig) *Worker {
	return &Worker{
		batches:   batches,
		queue:     queue,
		scheduler: scheduler,
		cfg:       cfg,
		log:       log.With("service", "worker"),
	}
}

// Run processes jobs until ctx is cancelled. A pass starts on every poll
// tick and on every scheduler signal; passes never overlap.
func (w *Worker) Run(ctx context.Context) error {
	poll := time.NewTicker(w.cfg.PollInterval)
	defer poll.Stop()
	reclaim := time.NewTicker(w.cfg.ReclaimInterval)
	defer reclaim.Stop()
	sweep := time.NewTicker(w.cfg.SweepInterval)
	defer sweep.Stop()
	defer w.scheduler.Stop()

	w.log.InfoContext(ctx, "worker started",
		slog.Duration("poll_interval", w.cfg.PollInterval),
		slog.Int("batch_size", w.cfg.BatchSize),
		slog.Int("concurrency", w.cfg.Concurrency),
	)

	w.reclaim(ctx)
	w.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.InfoContext(ctx, "worker stopped")
			return nil
		case <-poll.C:
			w.drain(ctx)
		case <-w.scheduler.C():
			w.drain(ctx)
		case <-reclaim.C:
			w.reclaim(ctx)
		case <-sweep.C:
			if _, err := w.queue.Sweep(ctx, w.cfg.RetentionDays); err != nil {
				w.log.ErrorContext(ctx, "retention sweep", slog.String("error", err.Error()))
			}
		}
	}
}

// drain runs batches while they come back full.
func (w *Worker) drain(ctx context.Context) {
	for range maxDrainBatches {
		if ctx.Err() != nil {
			return
		}
		res, err := w.batches.RunBatch(ctx)
		if err != nil {
			w.log.ErrorContext(ctx, "run batch", slog.String("error", err.Error()))
			return
		}
		if res.Listed < w.cfg.BatchSize {
			return
		}
	}
}

func (w *Worker) reclaim(ctx context.Context) {
	if _, err := w.queue.ReclaimStale(ctx); err != nil {
		w.log.ErrorContext(ctx, "reclaim stale jobs", slog.String("error", err.Error()))
	}
	if _, err := w.queue.Stats(ctx); err != nil {
		w.log.WarnContext(ctx, "queue stats", slog.String("error", err.Error()))
	}
}
