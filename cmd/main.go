package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/launchdash/internal/adapters/cache"
	"github.com/okian/launchdash/internal/adapters/http/api"
	"github.com/okian/launchdash/internal/adapters/http/site"
	"github.com/okian/launchdash/internal/adapters/http/swagger"
	"github.com/okian/launchdash/internal/adapters/render"
	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/config"
	"github.com/okian/launchdash/pkg/logger"
	"github.com/okian/launchdash/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Our own registry carries the system gauges; keep the defaults out of it.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	svc := service.New(
		service.WithLogger(log.Named("service")),
		service.WithDataPath(cfg.DataPath),
		service.WithSliderStep(cfg.SliderStep),
		service.WithTitle(cfg.Title),
	)
	if err := svc.Start(ctx); err != nil {
		log.Fatal(ctx, "failed to start service", logger.String("data_path", cfg.DataPath), logger.Error(err))
	}
	defer svc.Stop()

	metrics.SetRefreshInterval(time.Duration(cfg.MetricsRefreshSeconds) * time.Second)
	refresh := metrics.RefreshInterval()
	go startSystemMetricsUpdater(ctx, refresh)
	go startServiceMetricsUpdater(ctx, svc, refresh)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newMux registers the page, the API and the API docs.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	renderer := render.New(render.WithSize(cfg.ChartWidth, cfg.ChartHeight))
	var opts []api.ServerOption
	if cfg.ImageCacheEntries > 0 {
		opts = append(opts, api.WithImageCache(cache.NewInMemory(
			cache.WithMaxEntries(cfg.ImageCacheEntries),
			cache.WithObserver(func(hit bool, entries int64) {
				metrics.RecordImageCacheLookup(hit)
				metrics.UpdateImageCacheEntries(entries)
			}),
		)))
	}
	api.NewServer(svc, svc, renderer, opts...).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater refreshes system gauges every interval.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
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

// startServiceMetricsUpdater republishes dataset gauges every interval.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics copies dataset figures from the service stats.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if started, _ := stats["started"].(bool); !started {
		return
	}
	records, _ := stats["records"].(int)
	sites, _ := stats["sites"].(int)
	minPayload, _ := stats["minPayload"].(float64)
	maxPayload, _ := stats["maxPayload"].(float64)
	metrics.UpdateDataset(records, sites, minPayload, maxPayload)
}
