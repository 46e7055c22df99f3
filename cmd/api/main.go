// Package main is the entry point for the Träwelling API server.
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
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/ChillLP/traewelling/internal/config"
	"github.com/ChillLP/traewelling/internal/hafas"
	"github.com/ChillLP/traewelling/internal/handler"
	"github.com/ChillLP/traewelling/internal/middleware"
	"github.com/ChillLP/traewelling/internal/queue"
	"github.com/ChillLP/traewelling/internal/repo"
	"github.com/ChillLP/traewelling/internal/service"
	"github.com/ChillLP/traewelling/migrations"
)

// maxRequestBody caps incoming request bodies at 1 MiB. All request
// payloads here are small JSON documents.
const maxRequestBody = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

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
	// Embedded goose migrations run at startup so the schema is always
	// current. Goose needs database/sql, so a short-lived connection is
	// opened alongside the pgx pool.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")

	// --- External collaborators -------------------------------------------
	var cache *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		cache = redis.NewClient(opts)
		defer cache.Close()
	}

	hafasClient := hafas.New(cfg.HafasBaseURL, cache, logger)
	publisher := queue.NewPublisher(cfg.AMQPURL, logger)

	// --- Repositories and services ----------------------------------------
	statuses := repo.NewStatusRepo(pool)
	tags := repo.NewStatusTagRepo(pool)
	users := repo.NewUserRepo(pool)
	events := repo.NewEventRepo(pool)
	suggestions := repo.NewEventSuggestionRepo(pool)
	stations := repo.NewStationRepo(pool)
	trips := repo.NewHafasTripRepo(pool)
	notifications := repo.NewNotificationRepo(pool)

	tagService := service.NewTagService(statuses, tags, users, service.OwnerPolicy{})
	stationService := service.NewStationService(hafasClient, stations)
	notificationService := service.NewNotificationService(notifications, publisher)
	eventService := service.NewEventService(events, suggestions, stationService, notificationService, publisher)
	exportService := service.NewExportService(trips)

	auth := middleware.NewAuthenticator(cfg.JWTSecret, users)
	api := handler.NewServer(tagService, eventService, notificationService, exportService)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS → body cap.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))

	r.Mount("/", api.Routes(auth))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
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
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all embedded migrations against the database.
func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
