package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/config"
	gql "github.com/heartmarshall/storewatch/internal/transport/graphql"
	"github.com/heartmarshall/storewatch/internal/transport/rest"
)

// Run is the worker process entry point: webhook intake, probes and metrics
// over HTTP plus the job processing loop. It blocks until ctx is cancelled
// or either side fails, then shuts both down.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, "worker")
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	svc := Wire(cfg, pool, logger)
	defer svc.Scheduler.Stop()

	handler := rest.NewRouter(rest.Handlers{
		Webhook: rest.NewWebhookHandler(svc.Queue, cfg.Webhook, logger),
		Health:  rest.NewHealthHandler(pool, svc.Queue, Version),
		Admin:   rest.NewAdminHandler(svc.Queue, svc.Events, logger),
		GraphQL: gql.NewHandler(gql.Deps{Events: svc.Events, Queue: svc.Queue, Tenants: svc.Tenants}, logger),
	}, *cfg, logger)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svc.Worker.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("stopped", slog.Any("error", err))
	return err
}
