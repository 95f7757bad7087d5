package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/meridian-hr/meridian/internal/app"
	jobmetrics "github.com/meridian-hr/meridian/internal/jobs"
	"github.com/meridian-hr/meridian/internal/leave"
	"github.com/meridian-hr/meridian/internal/notifications"
	"github.com/meridian-hr/meridian/internal/payroll"
	"github.com/meridian-hr/meridian/internal/platform/db"
	"github.com/meridian-hr/meridian/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	notificationService := notifications.NewService(notifications.NewRepository(pool))

	// The worker generates payslips synchronously, so it needs no
	// enqueuer of its own. Notifications go straight to the store.
	payrollService := payroll.NewService(payroll.NewRepository(pool), nil, notificationService)
	leaveService := leave.NewService(leave.NewRepository(pool), notificationService)

	taskHandlers := jobs.NewTaskHandlers(logger, jobmetrics.NewMetrics(nil), payrollService, leaveService, notificationService)
	handlers, cron := taskHandlers.Register()

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  handlers,
		Cron:      cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
