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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/vaultpass/passforge/internal/config"
	"github.com/vaultpass/passforge/internal/handler"
	"github.com/vaultpass/passforge/internal/logging"
	"github.com/vaultpass/passforge/internal/middleware"
	"github.com/vaultpass/passforge/internal/repository"
	"github.com/vaultpass/passforge/internal/service"
)

func main() {
	os.Exit(run())
}

// run serves until a signal or a listener failure. Deferred cleanup runs before
// the exit code is returned.
func run() int {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		slog.Warn("no .env file found, using environment variables")
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	genOpts := []service.Option{
		service.WithFingerprintKey([]byte(cfg.FingerprintKey)),
		service.WithDefaultLength(cfg.DefaultLength),
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Audit storage is optional: generation keeps working without a database.
	if eventRepo, closeDB, err := openEventRepository(ctx, cfg.DatabaseDSN); err != nil {
		slog.Warn("database unavailable, audit events disabled", "error", err)
	} else {
		defer closeDB()
		genOpts = append(genOpts, service.WithRecorder(eventRepo))

		eventsHandler := handler.NewEventsHandler(service.NewAuditService(eventRepo))
		r.Group(func(r chi.Router) {
			r.Use(middleware.OperatorAuth(cfg.JWTSecret))
			r.Get("/api/v1/events", eventsHandler.HandleListEvents)
			r.Get("/api/v1/events/entropy-failures", eventsHandler.HandleEntropyFailures)
		})
	}

	genHandler := handler.NewGeneratorHandler(service.NewGeneratorService(genOpts...))
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Post("/api/v1/generate", genHandler.HandleGenerate)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		serveErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if err := waitForShutdown(quit, serveErr); err != nil {
		slog.Error("server error", "error", err)
		return 1
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		return 1
	}

	slog.Info("server stopped")
	return 0
}

// waitForShutdown blocks until a signal arrives or the listener stops on its own.
// A listener that stopped for any reason other than Shutdown is an error.
func waitForShutdown(quit <-chan os.Signal, serveErr <-chan error) error {
	select {
	case <-quit:
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func openEventRepository(ctx context.Context, dsn string) (*repository.EventRepository, func() error, error) {
	db, err := repository.NewDB(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewEventRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrating events table: %w", err)
	}
	return repo, db.Close, nil
}
