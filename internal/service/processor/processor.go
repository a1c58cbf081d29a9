// Package processor drives queued webhook jobs through change detection. It
// claims ready jobs, routes each to the handler owning its topic and settles
// the job: completed on success, handed to the retry policy otherwise.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
	"github.com/heartmarshall/storewatch/internal/webhook"
)

type jobQueue interface {
	ListReady(ctx context.Context, limit int) ([]domain.Job, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Fail(ctx context.Context, job domain.Job, cause error) error
}

type detector interface {
	HandleProduct(ctx context.Context, job domain.Job, p *webhook.ProductPayload) ([]domain.ChangeEvent, error)
	HandleProductDelete(ctx context.Context, job domain.Job, p *webhook.DeletePayload) ([]domain.ChangeEvent, error)
	HandleInventory(ctx context.Context, job domain.Job, p *webhook.InventoryLevelPayload) ([]domain.ChangeEvent, error)
	HandleCollection(ctx context.Context, job domain.Job, p *webhook.CollectionPayload) ([]domain.ChangeEvent, error)
	HandleCollectionDelete(ctx context.Context, job domain.Job, p *webhook.DeletePayload) ([]domain.ChangeEvent, error)
	HandleDiscount(ctx context.Context, job domain.Job, p *webhook.DiscountPayload) ([]domain.ChangeEvent, error)
	HandleDomain(ctx context.Context, job domain.Job, p *webhook.DomainPayload) ([]domain.ChangeEvent, error)
	HandleTheme(ctx context.Context, job domain.Job, p *webhook.ThemePayload) ([]domain.ChangeEvent, error)
	HandleScopes(ctx context.Context, job domain.Job, p *webhook.ScopesPayload) ([]domain.ChangeEvent, error)
}

type alertSettings interface {
	HasInstantAlerts(ctx context.Context, tenant string) (bool, error)
}

type dispatcher interface {
	SendInstant(ctx context.Context, e domain.ChangeEvent) error
}

// BatchResult summarizes one RunBatch pass.
type BatchResult struct {
	Listed    int
	Processed int
	Discarded int
	Failed    int
	Skipped   int
	Events    int
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeProcessed
	outcomeDiscarded
	outcomeFailed
)

func (r *BatchResult) add(o outcome, events int) {
	switch o {
	case outcomeProcessed:
		r.Processed++
	case outcomeDiscarded:
		r.Discarded++
	case outcomeFailed:
		r.Failed++
	default:
		r.Skipped++
	}
	r.Events += events
}

// Processor runs batches of ready jobs.
type Processor struct {
	queue       jobQueue
	engine      detector
	alerts      alertSettings
	notifier    dispatcher
	batchSize   int
	concurrency int
	log         *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(
	log *slog.Logger,
	queue jobQueue,
	engine detector,
	alerts alertSettings,
	notifier dispatcher,
	cfg config.QueueConfig,
) *Processor {
	return &Processor{
		queue:       queue,
		engine:      engine,
		alerts:      alerts,
		notifier:    notifier,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
		log:         log.With("service", "processor"),
	}
}

// RunBatch processes up to one batch of ready jobs. Per-job failures are
// settled through the queue and never returned; only listing the batch can
// fail.
func (p *Processor) RunBatch(ctx context.Context) (BatchResult, error) {
	jobs, err := p.queue.ListReady(ctx, p.batchSize)
	if err != nil {
		return BatchResult{}, err
	}
	result := BatchResult{Listed: len(jobs)}
	if len(jobs) == 0 {
		return result, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(p.concurrency)

	for _, job := range jobs {
		g.Go(func() error {
			o, n := p.process(ctx, job)
			mu.Lock()
			result.add(o, n)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	p.log.DebugContext(ctx, "batch finished",
		slog.Int("listed", result.Listed),
		slog.Int("processed", result.Processed),
		slog.Int("discarded", result.Discarded),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
		slog.Int("events", result.Events),
	)
	return result, nil
}

func (p *Processor) process(ctx context.Context, job domain.Job) (outcome, int) {
	log := p.log.With(
		slog.String("job_id", job.ID.String()),
		slog.String("tenant", job.Tenant),
		slog.String("topic", job.Topic),
	)

	ok, err := p.queue.Claim(ctx, job.ID)
	if err != nil {
		log.ErrorContext(ctx, "claim failed", slog.String("error", err.Error()))
		return outcomeSkipped, 0
	}
	if !ok {
		return outcomeSkipped, 0
	}
	job.Attempts++
	job.Status = domain.JobStatusProcessing
	job.Topic = webhook.Normalize(job.Topic)
	category := webhook.CategoryOf(job.Topic)

	start := time.Now()
	events, handleErr := p.handle(ctx, job)
	metrics.RecordJob(category.String(), time.Since(start))

	discard := errors.Is(handleErr, domain.ErrUnknownTopic)
	if handleErr != nil && !discard {
		if ferr := p.queue.Fail(ctx, job, handleErr); ferr != nil {
			log.ErrorContext(ctx, "settle failed job", slog.String("error", ferr.Error()))
		}
		return outcomeFailed, 0
	}

	if err := p.queue.Complete(ctx, job.ID); err != nil {
		// Events are keyed by job, so a reclaimed rerun cannot duplicate them.
		log.WarnContext(ctx, "complete job", slog.String("error", err.Error()))
		return outcomeSkipped, len(events)
	}

	if discard {
		metrics.JobsCompleted.WithLabelValues("discarded").Inc()
		log.InfoContext(ctx, "unhandled topic discarded")
		return outcomeDiscarded, 0
	}
	metrics.JobsCompleted.WithLabelValues("processed").Inc()

	p.sendInstantAlerts(ctx, job.Tenant, events)
	return outcomeProcessed, len(events)
}

// handle decodes and dispatches one job. A panicking handler is reported as
// an error so the job goes through the retry policy.
func (p *Processor) handle(ctx context.Context, job domain.Job) (events []domain.ChangeEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.ErrorContext(ctx, "panic in job handler",
				slog.String("job_id", job.ID.String()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	payload, err := webhook.Decode(job.Topic, job.Payload)
	if err != nil {
		return nil, err
	}
	return p.dispatch(ctx, job, payload)
}

func (p *Processor) dispatch(ctx context.Context, job domain.Job, payload webhook.Payload) ([]domain.ChangeEvent, error) {
	switch pl := payload.(type) {
	case *webhook.ProductPayload:
		return p.engine.HandleProduct(ctx, job, pl)
	case *webhook.DeletePayload:
		if webhook.CategoryOf(job.Topic) == webhook.CategoryCollection {
			return p.engine.HandleCollectionDelete(ctx, job, pl)
		}
		return p.engine.HandleProductDelete(ctx, job, pl)
	case *webhook.InventoryLevelPayload:
		return p.engine.HandleInventory(ctx, job, pl)
	case *webhook.CollectionPayload:
		return p.engine.HandleCollection(ctx, job, pl)
	case *webhook.DiscountPayload:
		return p.engine.HandleDiscount(ctx, job, pl)
	case *webhook.DomainPayload:
		return p.engine.HandleDomain(ctx, job, pl)
	case *webhook.ThemePayload:
		return p.engine.HandleTheme(ctx, job, pl)
	case *webhook.ScopesPayload:
		return p.engine.HandleScopes(ctx, job, pl)
	}
	return nil, fmt.Errorf("%s: %w", job.Topic, domain.ErrUnknownTopic)
}

// sendInstantAlerts forwards high importance events of opted-in tenants.
// Delivery problems are logged; the job is already complete.
func (p *Processor) sendInstantAlerts(ctx context.Context, tenant string, events []domain.ChangeEvent) {
	var high []domain.ChangeEvent
	for _, e := range events {
		if e.Importance == domain.ImportanceHigh {
			high = append(high, e)
		}
	}
	if len(high) == 0 || p.notifier == nil {
		return
	}

	enabled, err := p.alerts.HasInstantAlerts(ctx, tenant)
	if err != nil {
		p.log.WarnContext(ctx, "instant alert settings", slog.String("tenant", tenant), slog.String("error", err.Error()))
		return
	}
	if !enabled {
		return
	}

	for _, e := range high {
		if err := p.notifier.SendInstant(ctx, e); err != nil {
			p.log.WarnContext(ctx, "instant alert not sent",
				slog.String("tenant", tenant),
				slog.String("event_id", e.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}
