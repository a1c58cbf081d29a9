package app

import (
	"log/slog"

	"github.com/heartmarshall/storewatch/internal/adapter/catalog"
	"github.com/heartmarshall/storewatch/internal/adapter/notify"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres/event"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres/job"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres/sales"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres/snapshot"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres/tenant"
	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/service/detect"
	"github.com/heartmarshall/storewatch/internal/service/digest"
	"github.com/heartmarshall/storewatch/internal/service/enrich"
	"github.com/heartmarshall/storewatch/internal/service/inventory"
	"github.com/heartmarshall/storewatch/internal/service/processor"
	"github.com/heartmarshall/storewatch/internal/service/queue"
	tenantsvc "github.com/heartmarshall/storewatch/internal/service/tenant"
)

// Database is what the services need from a connection pool.
type Database interface {
	postgres.Querier
	postgres.Beginner
}

// Services holds the wired application graph.
type Services struct {
	Events    *event.Repo
	Tenants   *tenant.Repo
	Queue     *queue.Service
	Scheduler *processor.Scheduler
	Processor *processor.Processor
	Worker    *processor.Worker
	Digest    *digest.Service
}

// Wire builds the service graph on top of db.
func Wire(cfg *config.Config, db Database, logger *slog.Logger) *Services {
	tx := postgres.NewTxManager(db)

	jobs := job.New(db)
	events := event.New(db)
	snapshots := snapshot.New(db)
	tenants := tenant.New(db)
	salesRepo := sales.New(db)

	settings := tenantsvc.NewProvider(logger, tenants)
	dispatcher := notify.NewLogDispatcher(logger)
	client := catalog.New(cfg.Catalog, tenants, logger)
	stock := inventory.NewAggregator(logger, client, cfg.Detection.InventoryPageSize, cfg.Detection.InventoryMaxPages)
	enricher := enrich.New(enrich.Params{
		DiscoveryHours: cfg.Detection.DiscoveryHours,
		DiscoveryDays:  cfg.Detection.DiscoveryDays,
		Factor:         cfg.Detection.EstimateFactor,
	})

	engine := detect.NewEngine(logger, tx, snapshots, events, settings, client, stock, salesRepo,
		enricher, detect.PolicyFromConfig(cfg.Detection))

	scheduler := processor.NewScheduler(cfg.Queue.CoalesceDelay)
	queueSvc := queue.NewService(logger, jobs, scheduler, cfg.Queue)
	proc := processor.NewProcessor(logger, queueSvc, engine, settings, dispatcher, cfg.Queue)

	return &Services{
		Events:    events,
		Tenants:   tenants,
		Queue:     queueSvc,
		Scheduler: scheduler,
		Processor: proc,
		Worker:    processor.NewWorker(logger, proc, queueSvc, scheduler, cfg.Queue),
		Digest:    digest.NewService(logger, tx, events, dispatcher),
	}
}
