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

	"github.com/okian/painel/internal/adapters/cache"
	"github.com/okian/painel/internal/adapters/http/api"
	"github.com/okian/painel/internal/adapters/http/swagger"
	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/internal/adapters/sheets"
	app "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/config"
	"github.com/okian/painel/internal/domain/kpi"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/people"
	"github.com/okian/painel/internal/render"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if errors.Is(err, config.ErrMissingSecret) {
		_, _ = os.Stderr.WriteString(config.MissingSecretMessage + "\n")
		return 2
	}
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.Init(logger.WithFormat(logger.Format(cfg.LogFormat))); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := buildService(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		return 1
	}
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return 1
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.FetchTimeout() + readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	code := 0
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		log.Error(ctx, "HTTP server failed", logger.Error(err))
		code = 1
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return code
}

// buildService wires the fetcher, cache, history store and renderer from cfg.
func buildService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	photos, err := people.NewDirectory(cfg.Photos)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug(ctx, "photo directory loaded", logger.Int("photos", photos.Len()))
	renderer, err := render.New(render.WithPhotos(photos))
	if err != nil {
		return nil, err
	}

	var history repository.Store
	if cfg.HistoryPath != "" {
		history, err = repository.OpenSQLite(ctx, cfg.HistoryPath, repository.WithCapacity(cfg.HistorySize))
		if err != nil {
			return nil, err
		}
	} else {
		history = repository.NewMemoryStore(repository.WithCapacity(cfg.HistorySize))
	}

	client := sheets.New(
		sheets.WithTimeout(cfg.FetchTimeout()),
		sheets.WithCache(cache.NewTTL[sheets.Key, model.Payload](cfg.CacheTTL())),
	)

	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithFetcher(client),
		app.WithEndpoint(cfg.SheetsURL, cfg.SheetsToken),
		app.WithRenderer(renderer),
		app.WithHistory(history),
		app.WithHistorySize(cfg.HistorySize),
		app.WithRefreshSeconds(cfg.RefreshSeconds),
		app.WithFrameHeight(cfg.FrameHeight),
		app.WithBoardOptions(kpi.BoardOptions{
			Policy:      kpi.Policy{RatioCeiling: cfg.RatioCeiling},
			TopPeople:   cfg.TopPeople,
			OthersLabel: cfg.OthersLabel,
		}),
	), nil
}

// newMux registers the docs and dashboard routes.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RuntimeRefreshInterval())
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
