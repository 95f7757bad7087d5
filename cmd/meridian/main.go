package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-hr/meridian/internal/app"
	"github.com/meridian-hr/meridian/internal/attendance"
	"github.com/meridian-hr/meridian/internal/auth"
	"github.com/meridian-hr/meridian/internal/dashboard"
	"github.com/meridian-hr/meridian/internal/documents"
	"github.com/meridian-hr/meridian/internal/employees"
	"github.com/meridian-hr/meridian/internal/leave"
	"github.com/meridian-hr/meridian/internal/notifications"
	"github.com/meridian-hr/meridian/internal/observability"
	"github.com/meridian-hr/meridian/internal/payroll"
	"github.com/meridian-hr/meridian/internal/platform/cache"
	"github.com/meridian-hr/meridian/internal/platform/db"
	"github.com/meridian-hr/meridian/internal/reports"
	"github.com/meridian-hr/meridian/internal/shared"
	"github.com/meridian-hr/meridian/internal/users"
	"github.com/meridian-hr/meridian/internal/view"
	"github.com/meridian-hr/meridian/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)

	tokenCodec := auth.NewTokenCodec(cfg.AuthTokenSecret, cfg.AuthTokenTTL, cfg.IsProduction())
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, redisClient)
	authenticator := auth.NewAuthenticator(tokenCodec, authRepo)
	guard := auth.NewGuard(tokenCodec, logger, metrics)
	authHandler := auth.NewHandler(logger, authService, tokenCodec, authenticator, templates, auditLogger)

	enqueuer := jobs.NewEnqueuer(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := enqueuer.Close(); err != nil {
			logger.Warn("enqueuer close", slog.Any("error", err))
		}
	}()

	attendanceService := attendance.NewService(attendance.NewRepository(dbpool))
	attendanceHandler := attendance.NewHandler(logger, attendanceService, authenticator, templates)

	leaveService := leave.NewService(leave.NewRepository(dbpool), enqueuer)
	leaveHandler := leave.NewHandler(logger, leaveService, authenticator, templates)

	payrollService := payroll.NewService(payroll.NewRepository(dbpool), enqueuer, enqueuer)
	payrollHandler := payroll.NewHandler(logger, payrollService, authenticator, templates)

	documentsService := documents.NewService(documents.NewRepository(dbpool))
	documentsHandler := documents.NewHandler(logger, documentsService, authenticator, templates)

	employeesService := employees.NewService(employees.NewRepository(dbpool))
	employeesHandler := employees.NewHandler(logger, employeesService, authenticator, templates)

	reportsService := reports.NewService(reports.NewRepository(dbpool))
	reportsHandler := reports.NewHandler(logger, reportsService, authenticator, templates)

	usersService := users.NewService(users.NewRepository(dbpool), auditLogger)
	usersHandler := users.NewHandler(logger, usersService, authenticator, templates)

	notificationService := notifications.NewService(notifications.NewRepository(dbpool))
	notificationsHandler := notifications.NewHandler(notificationService, authenticator)

	dashboardHandler := dashboard.NewHandler(logger, attendanceService, leaveService, notificationService, authenticator, templates)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Guard:                guard,
		AuthHandler:          authHandler,
		DashboardHandler:     dashboardHandler,
		AttendanceHandler:    attendanceHandler,
		LeaveHandler:         leaveHandler,
		PayrollHandler:       payrollHandler,
		DocumentsHandler:     documentsHandler,
		EmployeesHandler:     employeesHandler,
		ReportsHandler:       reportsHandler,
		UsersHandler:         usersHandler,
		NotificationsHandler: notificationsHandler,
		JobsHandler:          jobsHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
