package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiftwatch/timeclock-backend-go/internal/config"
	appHTTP "github.com/shiftwatch/timeclock-backend-go/internal/handler/http"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/cron"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/database"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/jwt"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/sse"
	"github.com/shiftwatch/timeclock-backend-go/internal/repository/postgresql"
	anomalyService "github.com/shiftwatch/timeclock-backend-go/internal/service/anomaly"
	extrapayService "github.com/shiftwatch/timeclock-backend-go/internal/service/extrapay"
	punchService "github.com/shiftwatch/timeclock-backend-go/internal/service/punch"
	reconciliationService "github.com/shiftwatch/timeclock-backend-go/internal/service/reconciliation"
	shiftService "github.com/shiftwatch/timeclock-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})).With(
		slog.String("app", "timeclock"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	defaultLoc, err := time.LoadLocation(cfg.WorkDay.DefaultTimezone)
	if err != nil {
		logger.Error("invalid default timezone", slog.String("timezone", cfg.WorkDay.DefaultTimezone), slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		logger.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	shiftRepo := postgresql.NewShiftRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	anomalyRepo := postgresql.NewAnomalyRepository(db)
	paymentRepo := postgresql.NewExtraPaymentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	hub := sse.NewHub()
	anomalyFeed := sse.NewAnomalyFeed(hub)

	reconcileSvc, err := reconciliationService.NewReconcileService(
		db,
		shiftRepo,
		punchRepo,
		anomalyRepo,
		paymentRepo,
		employeeRepo,
		cfg,
		anomalyFeed,
		logger,
	)
	if err != nil {
		logger.Error("reconciliation service init failed", slog.Any("error", err))
		os.Exit(1)
	}

	shiftSvc := shiftService.NewShiftService(db, shiftRepo, paymentRepo, reconcileSvc, logger)
	punchSvc := punchService.NewPunchService(
		punchRepo,
		employeeRepo,
		reconcileSvc,
		cfg.WorkDay.CutoffHour,
		defaultLoc,
		logger,
	)
	anomalySvc := anomalyService.NewAnomalyService(anomalyRepo)
	paymentSvc := extrapayService.NewExtraPaymentService(paymentRepo)

	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	punchHandler := appHTTP.NewPunchHandler(punchSvc)
	anomalyHandler := appHTTP.NewAnomalyHandler(anomalySvc)
	paymentHandler := appHTTP.NewExtraPaymentHandler(paymentSvc)
	reconciliationHandler := appHTTP.NewReconciliationHandler(reconcileSvc)
	eventsHandler := appHTTP.NewEventsHandler(jwtService, hub)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		shiftHandler,
		punchHandler,
		anomalyHandler,
		paymentHandler,
		reconciliationHandler,
		eventsHandler,
	)

	// Sweep the last two work-days hourly so absences surface without a
	// punch ever arriving and transient failures get retried.
	sweeper := reconciliationService.NewSweeper(
		reconcileSvc,
		employeeRepo,
		cfg.WorkDay.CutoffHour,
		defaultLoc,
		2,
		logger,
	)
	scheduler := cron.NewScheduler(logger)
	scheduler.AddJob("reconciliation-sweep", time.Hour, sweeper.Run)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server started", slog.Int("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
