// Command digest hands every tenant's undigested change events to the
// notification dispatcher. It is intended to be invoked by an external cron
// job, typically once a day.
//
// Flags:
//
//	--tenant  digest only this shop domain (default: all with pending events)
//
// Exit codes: 0 = success, 1 = error (including a failure for any tenant).
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/storewatch/internal/adapter/notify"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/adapter/postgres/event"
	"github.com/heartmarshall/storewatch/internal/app"
	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/service/digest"
)

func main() {
	tenantFlag := flag.String("tenant", "", "digest only this shop domain")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "digest")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := digest.NewService(logger, postgres.NewTxManager(pool), event.New(pool), notify.NewLogDispatcher(logger))

	var sent int
	if tenant := strings.ToLower(strings.TrimSpace(*tenantFlag)); tenant != "" {
		sent, err = svc.Run(ctx, tenant)
	} else {
		sent, err = svc.RunAll(ctx)
	}
	if err != nil {
		logger.Error("digest failed", slog.String("error", err.Error()), slog.Int("sent", sent))
		os.Exit(1)
	}

	logger.Info("digest completed", slog.Int("sent", sent))
}
