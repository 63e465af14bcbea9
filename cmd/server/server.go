package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/civickit/ballotbox/internal/config"
	"github.com/civickit/ballotbox/internal/database"
	"github.com/civickit/ballotbox/internal/metrics"
	"github.com/civickit/ballotbox/internal/repository"
	"github.com/civickit/ballotbox/internal/services/auth"
	"github.com/civickit/ballotbox/internal/services/email"
	"github.com/civickit/ballotbox/internal/services/reset"
	"github.com/civickit/ballotbox/internal/services/session"
	"github.com/civickit/ballotbox/internal/services/voting"
	"github.com/civickit/ballotbox/internal/upload"
)

// setupLogger creates a structured logger based on configuration.
func setupLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: lvl})
	}

	return slog.New(handler)
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer sqlDB.Close()

	repo := repository.New(db)

	mailer, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create mail service: %w", err)
	}

	authService := auth.NewService(repo)
	resetService := reset.NewService(repo, mailer,
		time.Duration(cfg.Reset.TokenExpiryMinutes)*time.Minute,
		time.Duration(cfg.Reset.CleanupHours)*time.Hour)
	votingService := voting.NewService(repo)

	uploads, err := upload.NewStore(cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	if err != nil {
		return fmt.Errorf("failed to create upload store: %w", err)
	}

	sessions, err := session.NewManager(db,
		time.Duration(cfg.Session.LifetimeHours)*time.Hour,
		cfg.Session.CookieName, cfg.Session.CookieSecure)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	// Bootstrap the first admin account if configured
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authService.EnsureAdmin(ctx, "Administrator", cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("failed to ensure admin: %w", err)
		}
	}

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	deps := &routerDeps{
		cfg:      cfg,
		repo:     repo,
		sessions: sessions,
		auth:     authService,
		reset:    resetService,
		voting:   votingService,
		uploads:  uploads,
		metrics:  m,
		logger:   logger,
	}
	setupRoutes(e, deps)

	// Best-effort background cleanup of stale reset tokens; failures inside
	// only log and never affect requests.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				resetService.Cleanup(ctx)
			}
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server_start", "addr", addr, "database", cfg.Database.DSN, "log_level", cfg.Log.Level)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
