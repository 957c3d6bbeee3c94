package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/alumnet/internal/adapters/document"
	"github.com/okian/alumnet/internal/adapters/http/api"
	"github.com/okian/alumnet/internal/adapters/http/swagger"
	"github.com/okian/alumnet/internal/adapters/mq/worker"
	"github.com/okian/alumnet/internal/adapters/notify"
	"github.com/okian/alumnet/internal/adapters/realtime"
	"github.com/okian/alumnet/internal/adapters/repository"
	app "github.com/okian/alumnet/internal/app"
	"github.com/okian/alumnet/internal/catalog"
	"github.com/okian/alumnet/internal/config"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "alumnet exited", logger.Error(err))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, handler, cleanup, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	go startSystemMetricsUpdater(ctx, metrics.RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var failed error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			failed = fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service stop failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return failed
}

// build assembles the service and its HTTP handler from cfg. cleanup
// releases resources the service does not own.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, http.Handler, func(), error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		c, err := catalog.Load(ctx, cfg.CatalogPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		cat = c
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	hub := realtime.NewHub(realtime.WithAllowedOrigins(cfg.AllowedOrigins))
	sinks := []worker.Sink{notify.NewLogSink(), hub}
	cleanup := func() {}
	if cfg.AMQPURL != "" {
		broker, err := notify.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("dial amqp: %w", err)
		}
		sinks = append(sinks, broker)
		cleanup = func() {
			if err := broker.Close(); err != nil {
				log.Warn(ctx, "close amqp sink", logger.Error(err))
			}
		}
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithCatalog(cat),
		app.WithDocumentReader(document.NewReader(document.WithMaxBytes(cfg.MaxUploadBytes))),
		app.WithSinks(sinks...),
		app.WithPresence(hub),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithHistoryLimit(cfg.HistoryLimit),
		app.WithDefaultCredits(cfg.DefaultCredits),
		app.WithLeaderboardLimits(cfg.LeaderboardLimit, cfg.MaxLeaderboardLimit),
		app.WithMinResumeChars(cfg.MinResumeChars),
		app.WithMaxUploadBytes(cfg.MaxUploadBytes),
	)

	server := api.NewServer(svc,
		api.WithLogger(log.Named("api")),
		api.WithRealtime(hub),
		api.WithDocs(swagger.Register),
		api.WithUploadRate(cfg.UploadRatePerSec, cfg.UploadBurst),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
	)
	return svc, server.Handler(), cleanup, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite, config.DriverPostgres:
		store, err := repository.OpenSQL(ctx, cfg.StoreDriver, cfg.StoreDSN)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return store, nil
	default:
		return repository.NewMemoryStore(), nil
	}
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateSystemMetrics()
		}
	}
}
