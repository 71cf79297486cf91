// Command stationkpi serves the KPI engine over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/stationkpi/internal/adapters/http/api"
	service "github.com/okian/stationkpi/internal/app"
	"github.com/okian/stationkpi/internal/config"
	"github.com/okian/stationkpi/pkg/logger"
	"github.com/okian/stationkpi/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("stationkpi: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	opts, err := serviceOptions(cfg)
	if err != nil {
		return err
	}
	opts = append(opts, service.WithLogger(log.Named("service")))

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := svc.Stop(context.Background()); err != nil {
			log.Error(ctx, "service stop failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)

	apiServer := api.NewServer(svc,
		api.WithMaxLimit(cfg.MaxLeaderboardLimit),
		api.WithLogger(log.Named("http")),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(ctx),
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

	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		metrics.RecordSystemGCPauseTime(float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond)
	}
}
