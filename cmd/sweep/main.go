// Command sweep deletes completed and failed jobs older than the configured
// retention and requeues jobs stuck in processing. It is intended to be
// invoked by an external cron job for deployments that disable the
// in-process sweep.
//
// Flags:
//
//	--days  retention in days (default: queue.retention_days)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres/job"
	"github.com/heartmarshall/storewatch/internal/app"
	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/service/queue"
)

func main() {
	daysFlag := flag.Int("days", 0, "retention in days (default: queue.retention_days)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "sweep")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	days := cfg.Queue.RetentionDays
	if *daysFlag > 0 {
		days = *daysFlag
	}

	svc := queue.NewService(logger, job.New(pool), nil, cfg.Queue)

	reclaimed, err := svc.ReclaimStale(ctx)
	if err != nil {
		logger.Error("reclaim failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deleted, err := svc.Sweep(ctx, days)
	if err != nil {
		logger.Error("sweep failed",
			slog.String("error", err.Error()),
			slog.Int("retention_days", days),
		)
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int64("deleted", deleted),
		slog.Int64("reclaimed", reclaimed),
		slog.Int("retention_days", days),
	)
}
