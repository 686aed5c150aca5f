package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/workplace-insights/internal/application"
	"github.com/example/workplace-insights/internal/config"
	httptransport "github.com/example/workplace-insights/internal/http"
	"github.com/example/workplace-insights/internal/logging"
	"github.com/example/workplace-insights/internal/persistence/sqlite"
	"github.com/example/workplace-insights/internal/persistence/sqlite/migration"
	"github.com/example/workplace-insights/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("insights API stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	storage, err := sqlite.Open(migration.DefaultSQLiteConfig(cfg.DatabasePath))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(ctx, logger); err != nil {
		return err
	}

	if cfg.SeedDemoData {
		if _, err := seed.Load(ctx, seedRepositories(storage), seed.Options{
			Location: cfg.Location,
			Seed:     cfg.SeedRandomSeed,
			Logger:   logger,
		}); err != nil {
			return err
		}
	}

	svc := newServices(storage, cfg, logger, time.Now)
	handler := newHandler(svc, storage.Ping, cfg, logger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("insights API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// services bundles the application layer the HTTP handlers depend on.
type services struct {
	auth        *application.AuthService
	dashboard   *application.DashboardService
	employees   *application.EmployeeService
	alerts      *application.AlertService
	performance *application.PerformanceService
	retention   *application.RetentionService
	risks       *application.RiskService
}

func newServices(storage *sqlite.Storage, cfg config.Config, logger *slog.Logger, now func() time.Time) services {
	repos := newRepositories(storage)
	loc := cfg.Location
	return services{
		auth: application.NewAuthServiceWithLogger(
			newCredentialStoreAdapter(storage.Users),
			newSessionRepositoryAdapter(storage.Sessions),
			nil,
			func() string { return randomHex(32) },
			now,
			cfg.SessionTTL,
			logger,
		),
		dashboard:   application.NewDashboardServiceWithLogger(repos, now, loc, logger),
		employees:   application.NewEmployeeServiceWithLogger(repos, now, loc, logger),
		alerts:      application.NewAlertServiceWithLogger(repos, now, loc, logger),
		performance: application.NewPerformanceServiceWithLogger(repos, now, loc, logger),
		retention:   application.NewRetentionServiceWithLogger(repos, now, loc, logger),
		risks:       application.NewRiskServiceWithLogger(repos, now, loc, logger),
	}
}

func newHandler(svc services, health func(context.Context) error, cfg config.Config, logger *slog.Logger) http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(svc.auth, cfg.CookieSecure, logger),
		Dashboard: httptransport.NewDashboardHandler(svc.dashboard, logger),
		Employees: httptransport.NewEmployeeHandler(svc.employees, logger),
		Alerts:    httptransport.NewAlertHandler(svc.alerts, logger),
		Analytics: httptransport.NewAnalyticsHandler(svc.performance, svc.retention, svc.risks, logger),
		Health:    health,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireSession(svc.auth, logger),
		},
	})
}

func seedRepositories(storage *sqlite.Storage) seed.Repositories {
	return seed.Repositories{
		Departments: storage.Departments,
		Users:       storage.Users,
		Messages:    storage.Messages,
		Alerts:      storage.Alerts,
		Calendar:    storage.Calendar,
		Metrics:     storage.Metrics,
		Files:       storage.Files,
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
