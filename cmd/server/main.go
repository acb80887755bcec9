package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/crmdesk/internal/config"
	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/JonMunkholm/crmdesk/internal/crmapi"
	"github.com/JonMunkholm/crmdesk/internal/history"
	"github.com/JonMunkholm/crmdesk/internal/logging"
	"github.com/JonMunkholm/crmdesk/internal/session"
	"github.com/JonMunkholm/crmdesk/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"backend", cfg.Backend.APIBase(),
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"require_api_key", cfg.Security.RequireAPIKey,
		"history_enabled", cfg.History.HistoryEnabled(),
	)

	ctx := context.Background()

	// Session store
	store, err := session.OpenSQLite(cfg.Session.DBPath)
	if err != nil {
		slog.Error("failed to open session store", "path", cfg.Session.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	sessions := session.NewManager(store)
	restored, err := sessions.Init(ctx)
	if err != nil {
		slog.Error("failed to load session", "error", err)
		os.Exit(1)
	}
	slog.Info("session loaded", "authenticated", restored.Authenticated())

	// Backend client: bearer token from the session, teardown on 401
	client := crmapi.New(cfg.Backend.APIBase(), cfg.Backend.Timeout,
		crmapi.WithTokenSource(sessions.Token),
		crmapi.WithUnauthorizedHook(sessions.OnUnauthorized),
	)

	// Background jobs stop with this context
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	// Import history (optional)
	var recorder core.HistoryRecorder = core.NopHistory{}
	if cfg.History.HistoryEnabled() {
		pool, err := connectHistory(ctx, cfg.History)
		if err != nil {
			slog.Error("failed to connect to history database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		rec := history.NewRecorder(pool)
		if err := rec.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare history schema", "error", err)
			os.Exit(1)
		}
		recorder = rec

		go rec.StartPruneScheduler(jobCtx, history.PruneConfig{
			RetentionDays: cfg.History.RetentionDays,
			Interval:      cfg.History.PruneInterval,
		})
	}

	service := core.NewService(client, core.Options{
		PageSize:     cfg.List.PageSize,
		Location:     cfg.List.Location(),
		ErrorPreview: cfg.Import.ErrorPreview,
		MaxFileSize:  cfg.Import.MaxFileSize,
		History:      recorder,
		Guard:        core.NewImportGuard(cfg.Import.MaxConcurrent),
		Validator:    core.NewFormValidator(cfg.Validation.PhoneRegion),
	})

	screens := core.Screens()
	slog.Info("screens registered", "count", len(screens))
	for _, sc := range screens {
		slog.Debug("screen", "key", sc.Key, "categories", sc.Categories)
	}

	server := web.NewServer(service, client, sessions, cfg)

	// Graceful shutdown: stop accepting requests, then let in-flight imports
	// finish so their results are not lost. main returns once both are done.
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		if status := service.Guard().Status(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.Guard().WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return
	}
	<-done
	slog.Info("server stopped")
}

// connectHistory opens and pings the history pool.
func connectHistory(ctx context.Context, cfg config.HistoryConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		slog.Info("connected to history database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}
