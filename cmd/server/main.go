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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JonMunkholm/bizvisa/internal/config"
	"github.com/JonMunkholm/bizvisa/internal/logging"
	"github.com/JonMunkholm/bizvisa/internal/metrics"
	"github.com/JonMunkholm/bizvisa/internal/visa"
	"github.com/JonMunkholm/bizvisa/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded", "config", cfg.String())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	ctx := context.Background()

	src, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up reference source", "error", err)
		os.Exit(1)
	}
	defer closeSource()

	loader := visa.NewLoader(src, m)

	// A failed warm-up is not fatal: the page reports the data as
	// unavailable and the next request retries the load.
	if cfg.Reference.WarmUp {
		if _, err := loader.Load(ctx); err != nil {
			slog.Warn("reference table unavailable at startup", "source", src.Name(), "error", err)
		}
	}

	service := visa.NewService(loader, m)
	server := web.NewServer(service, cfg, reg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newSource builds the Postgres source when a database is configured and
// the file source otherwise. The returned func releases its resources.
func newSource(ctx context.Context, cfg *config.Config) (visa.Source, func(), error) {
	if !cfg.Database.Enabled() {
		src := &visa.FileSource{
			BaseDir:    cfg.Reference.BaseDir,
			Candidates: cfg.Reference.Paths,
			Sheet:      cfg.Reference.Sheet,
		}
		return src, func() {}, nil
	}

	// Parse and configure connection pool
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, err
	}

	// A failed ping is logged, not fatal; loads report the source as unreadable.
	if err := pool.Ping(ctx); err != nil {
		slog.Warn("failed to ping database", "error", err)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("using database reference source",
			"name", strings.TrimPrefix(u.Path, "/"),
			"table", cfg.Database.Table,
		)
	}

	return &visa.PostgresSource{DB: pool, Table: cfg.Database.Table}, pool.Close, nil
}
