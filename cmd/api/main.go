// Package main is the entry point for the trip sharing API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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
	"github.com/lmittmann/tint"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/tripshare/backend/internal/auth"
	"github.com/pkordes/tripshare/backend/internal/config"
	"github.com/pkordes/tripshare/backend/internal/handler"
	"github.com/pkordes/tripshare/backend/internal/middleware"
	"github.com/pkordes/tripshare/backend/internal/repo"
	"github.com/pkordes/tripshare/backend/internal/service"
	"github.com/pkordes/tripshare/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before the configured one exists.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON for log aggregators in production, tint for readable colored
	// output during local development (LOG_FORMAT=text).
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	var logHandler slog.Handler
	if cfg.LogFormat == "text" {
		logHandler = tint.NewHandler(os.Stdout, &tint.Options{Level: logLevel})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	// --- Migrations -------------------------------------------------------
	if cfg.AutoMigrate {
		if err := migrate(cfg.DatabaseURL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied")
	}

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

	// --- Repos ------------------------------------------------------------
	users := repo.NewUserRepo(pool)
	trips := repo.NewTripRepo(pool)
	items := repo.NewItemRepo(pool)
	companions := repo.NewCompanionRepo(pool)
	tripLinks := repo.NewTripCompanionRepo(pool)
	itemLinks := repo.NewItemCompanionRepo(pool)
	grants := repo.NewCompanionPermissionRepo(pool)

	// --- Services ---------------------------------------------------------
	resolver := service.NewPermissionResolver(trips, items, companions, tripLinks, itemLinks, grants)
	cascade := service.NewCascadeManager(items, itemLinks)
	if cfg.CascadeAtomic {
		cascade = cascade.WithTransactions(pool)
	}
	tripSvc := service.NewTripService(trips, resolver)
	companionSvc := service.NewCompanionService(companions, tripLinks, resolver, cascade)
	itemSvc := service.NewItemService(items, resolver)
	sharingSvc := service.NewSharingService(companions, itemLinks, grants, resolver)

	accounts := auth.NewAuthenticator(users)
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS →
	// body cap → metrics. RequestID generates a unique trace ID per request;
	// RealIP sets r.RemoteAddr from X-Forwarded-For (safe behind a proxy);
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewMetricsHandler())

	r.Handle("/metrics", promhttp.Handler())

	srv := handler.NewServer(tripSvc, companionSvc, itemSvc, sharingSvc, accounts, tokens)
	r.Mount("/", srv.Routes(middleware.NewAuthHandler(tokens)))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations from the embedded FS.
// goose needs database/sql, so this opens its own short-lived connection
// rather than reusing the pgx pool.
func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return err
	}
	return nil
}
