package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/p-n-ai/pai-planner/internal/api"
	"github.com/p-n-ai/pai-planner/internal/catalog"
	"github.com/p-n-ai/pai-planner/internal/navigation"
	"github.com/p-n-ai/pai-planner/internal/platform/cache"
	"github.com/p-n-ai/pai-planner/internal/platform/config"
	"github.com/p-n-ai/pai-planner/internal/platform/database"
	"github.com/p-n-ai/pai-planner/internal/platform/kv"
	"github.com/p-n-ai/pai-planner/internal/route"
	"github.com/p-n-ai/pai-planner/internal/session"
	"github.com/p-n-ai/pai-planner/internal/settings"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	mux, cleanup, err := setup(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// setup connects the backing services and wires the API. Postgres and Redis
// are optional: without them the planner serves the bundled catalog and keeps
// navigation state in memory.
func setup(ctx context.Context, cfg *config.Config) (*http.ServeMux, func(), error) {
	var (
		closers []func()
		checks  []readinessCheck
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	fail := func(err error) (*http.ServeMux, func(), error) {
		cleanup()
		return nil, nil, err
	}

	static, err := catalog.LoadDir(cfg.Catalog.Path)
	if err != nil {
		return fail(err)
	}

	var store kv.Store = kv.NewMemoryStore()
	if cfg.HasCache() {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return fail(fmt.Errorf("connecting to cache: %w", err))
		}
		closers = append(closers, func() { _ = c.Close() })
		checks = append(checks, readinessCheck{name: "cache", check: c.HealthCheck})
		store = c.Store("planner:")
	}

	var (
		content catalog.ContentStore
		events  session.EventLogger = session.NopEventLogger{}
	)
	if cfg.HasDatabase() {
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return fail(fmt.Errorf("connecting to database: %w", err))
		}
		closers = append(closers, db.Close)
		checks = append(checks, readinessCheck{name: "database", check: db.HealthCheck})

		if cfg.Database.Migrate {
			if err := db.Migrate(ctx); err != nil {
				return fail(err)
			}
		}
		content = catalog.NewCachedStore(catalog.NewPostgresStore(db.Pool), store, cfg.Cache.TTL)
		events = session.NewPostgresEventLogger(db.Pool)
	}

	cat := catalog.New(static, content)
	if content != nil {
		cat.StartRefresh(ctx, cfg.Catalog.Refresh)
	}

	h := api.New(api.Config{
		Catalog:      cat,
		Resolver:     route.NewResolver(),
		Navigation:   navigation.NewService(store, navigation.WithTTL(cfg.Navigation.TTL)),
		Settings:     settings.NewStore(store),
		Events:       events,
		TimerSeconds: cfg.Session.DefaultSeconds,
	})

	mux := newMux(checks...)
	h.Register(mux)
	return mux, cleanup, nil
}

type readinessCheck struct {
	name  string
	check func(context.Context) error
}

// newMux creates the HTTP router with health check endpoints.
func newMux(checks ...readinessCheck) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz(checks))
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(checks []readinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := c.check(ctx)
			cancel()
			if err != nil {
				slog.Warn("readiness check failed", "check", c.name, "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "check": c.name})
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
