// Package main is the entry point for the border registry API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/border-registry/backend/internal/config"
	"github.com/pkordes/border-registry/backend/internal/handler"
	"github.com/pkordes/border-registry/backend/internal/metrics"
	"github.com/pkordes/border-registry/backend/internal/middleware"
	"github.com/pkordes/border-registry/backend/internal/repo"
	"github.com/pkordes/border-registry/backend/internal/service"
	"github.com/pkordes/border-registry/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose needs database/sql; the pool stays on pgx for everything else.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	m := metrics.New()
	records := repo.NewRecordRepo(pool, cfg.DateRangeScope)
	validator := service.NewRecordValidator(records, cfg.DateFormat)
	audits := service.NewAuditService(repo.NewAuditRepo(pool), logger)

	srv := handler.NewServer(handler.Deps{
		Records: service.NewRecordService(records, validator, audits),
		Ingests: service.NewIngestService(records, validator, m),
		Exports: service.NewExportService(records, cfg.DateFormat, m),
		Reports: service.NewReportService(repo.NewReportConfigRepo(pool)),
		Audits:  audits,
		Stats:   service.NewStatsService(repo.NewStatsRepo(pool), nil),

		DateFormat:     cfg.DateFormat,
		MaxPerPage:     cfg.MaxPerPage,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins()))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", srv.Routes(middleware.NewAuthHandler(cfg.JWTSecret)))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending embedded migrations on startup.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	if len(results) > 0 {
		slog.Info("migrations applied", "count", len(results))
	}
	return nil
}
