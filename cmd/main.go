package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yhjeon/assemblybook/internal/config"
	"github.com/yhjeon/assemblybook/internal/httpapi"
	"github.com/yhjeon/assemblybook/internal/narrative"
	ledgersvc "github.com/yhjeon/assemblybook/internal/service/ledger"
	filestore "github.com/yhjeon/assemblybook/internal/storage/file"
	pgstore "github.com/yhjeon/assemblybook/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	var store ledgersvc.Store
	var ready httpapi.ReadyChecker
	var closeFn func()

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		store = pg
		ready = pg
		closeFn = func() { pg.Close() }
		logger.Info("storage backend: postgres")
	} else {
		fs := filestore.New(cfg.LedgerFile)
		store = fs
		logger.Info("storage backend: file", "path", fs.Path())
	}

	svc, err := ledgersvc.New(ctx, store, logger)
	if err != nil {
		logger.Error("failed to load ledger document", "err", err)
		os.Exit(1)
	}

	narrator := narrative.New(ctx, cfg.GeminiAPIKey, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.New(svc, narrator, ready, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("assembly ledger listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)
	if strings.ToLower(strings.TrimSpace(cfg.LogFormat)) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
