package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/lesson-admin/internal/config"
	httpx "github.com/yungbote/lesson-admin/internal/http"
	"github.com/yungbote/lesson-admin/internal/observability"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

const sweepInterval = time.Minute

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Server   *httpx.Server
	Cache    *querycache.Cache
	Metrics  *observability.Metrics
	Clients  Clients
	Services Services

	shutdownOtel func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.NewWithOptions(logger.Options{Mode: cfg.Env, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := build(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// build wires everything from an already loaded config.
func build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Env,
	})

	var metrics *observability.Metrics
	if cfg.HTTP.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		_ = shutdownOtel(context.Background())
		return nil, err
	}

	cache, err := wireCache(log, cfg, clients, metrics)
	if err != nil {
		clients.Close()
		_ = shutdownOtel(context.Background())
		return nil, err
	}

	serviceset := wireServices(log, cache, clients.API)
	handlerset := wireHandlers(log, cfg, serviceset, cache, clients)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Server:       server,
		Cache:        cache,
		Metrics:      metrics,
		Clients:      clients,
		Services:     serviceset,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Run serves HTTP until ctx is done. The cache sweeper and the invalidation
// forwarder stop with it.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Clients.Bus != nil {
		err := a.Clients.Bus.StartForwarder(ctx, func(m invalidation) {
			if err := a.Cache.ApplyRemote(ctx, querycache.Key(m.Key), m.Remove); err != nil {
				a.Log.Warn("apply remote invalidation failed", "key", m.Key, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("start invalidation forwarder: %w", err)
		}
	}
	go a.Cache.RunSweeper(ctx, sweepInterval)
	return a.Server.Run(ctx, a.Cfg.HTTP.ShutdownTimeout.Duration)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.shutdownOtel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOtel(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
