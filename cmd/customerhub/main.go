package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/customerhub/customerhub/cmd/customerhub/cli"
	"github.com/customerhub/customerhub/internal/app"
	"github.com/customerhub/customerhub/internal/audit"
	audithttp "github.com/customerhub/customerhub/internal/audit/http"
	"github.com/customerhub/customerhub/internal/customers"
	jobmetrics "github.com/customerhub/customerhub/internal/jobs"
	"github.com/customerhub/customerhub/internal/observability"
	"github.com/customerhub/customerhub/internal/platform/cache"
	"github.com/customerhub/customerhub/internal/platform/db"
	"github.com/customerhub/customerhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		jobsCLI := cli.NewJobsCLI(cfg.RedisAddr, cfg.AuditQueue)
		code := jobsCLI.Run(ctx, os.Args[2:], cli.JobsOptions{})
		if err := jobsCLI.Close(); err != nil {
			logger.Warn("jobs cli close", slog.Any("error", err))
		}
		os.Exit(code)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("customerhub stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, dbpool); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable at startup", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	queueClient := jobs.NewClient(redisOpts, cfg.AuditQueue)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	publisher := jobs.NewAuditPublisher(jobs.AuditPublisherConfig{
		Enqueuer: queueClient,
		Queue:    cfg.AuditQueue,
		Buffer:   cfg.AuditBuffer,
		Logger:   logger.With(slog.String("component", "audit_publisher")),
		Metrics:  jobMetrics,
	})

	customerRepo := customers.NewRepository(dbpool)
	customerService := customers.NewService(customerRepo, publisher, customers.WithLogger(logger))
	customerHandler := customers.NewHandler(logger, customerService)

	auditService := audit.NewService(audit.NewRepository(dbpool))
	auditHandler := audithttp.NewHandler(logger, auditService)

	readiness := app.NewReadiness(logger,
		app.Check{Name: "postgres", Probe: dbpool.Ping},
		app.Check{Name: "redis", Probe: func(ctx context.Context) error {
			return cache.Ping(ctx, redisClient)
		}},
	)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		CustomerHandler: customerHandler,
		AuditHandler:    auditHandler,
		JobHandler:      jobs.NewHandler(inspector, cfg.AuditQueue, logger),
		Metrics:         metrics,
		Readiness:       readiness,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Closed by the shutdown goroutine once in-flight requests finish.
		return publisher.Run(context.WithoutCancel(gctx))
	})
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", slog.Any("error", err))
		}
		publisher.Close()
		return nil
	})

	return g.Wait()
}
