package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/clients/redis"
	"github.com/yungbote/lesson-admin/internal/config"
	"github.com/yungbote/lesson-admin/internal/observability"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

type invalidation = redis.Invalidation

type Clients struct {
	API *api.Client
	// Redis and Bus are nil unless the cache is shared or broadcast.
	Redis *goredis.Client
	Bus   redis.InvalidationBus
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	opts := api.Options{
		BaseURL:    cfg.Backend.BaseURL,
		Token:      cfg.Backend.Token,
		Timeout:    cfg.Backend.Timeout.Duration,
		MaxRetries: cfg.Backend.MaxRetries,
		Logger:     log,
	}
	// A nil *Metrics in an interface would not compare nil.
	if metrics != nil {
		opts.Observer = metrics
	}
	client, err := api.New(opts)
	if err != nil {
		return Clients{}, fmt.Errorf("init api client: %w", err)
	}
	out := Clients{API: client}

	needRedis := cfg.Cache.Backend == config.CacheBackendRedis || cfg.Cache.Broadcast
	if !needRedis {
		return out, nil
	}
	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	out.Redis = rdb

	if cfg.Cache.Broadcast {
		bus, err := redis.NewInvalidationBus(log, rdb, cfg.Cache.BroadcastChannel)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init invalidation bus: %w", err)
		}
		out.Bus = bus
	}
	return out, nil
}

func wireCache(log *logger.Logger, cfg *config.Config, clients Clients, metrics *observability.Metrics) (*querycache.Cache, error) {
	var store querycache.Store
	if cfg.Cache.Backend == config.CacheBackendRedis {
		rs, err := querycache.NewRedisStore(clients.Redis, cfg.Cache.RedisPrefix, cfg.Cache.GCTime.Duration)
		if err != nil {
			return nil, fmt.Errorf("init redis cache store: %w", err)
		}
		store = rs
	} else {
		store = querycache.NewMemoryStore()
	}

	opts := querycache.Options{
		StaleTime: cfg.Cache.StaleTime.Duration,
		GCTime:    cfg.Cache.GCTime.Duration,
		Logger:    log,
	}
	if metrics != nil {
		opts.Observer = metrics
	}
	if bus := clients.Bus; bus != nil {
		opts.OnChange = func(ctx context.Context, prefix querycache.Key, remove bool) {
			if err := bus.Publish(ctx, []string(prefix), remove); err != nil {
				log.Warn("publish invalidation failed", "key", prefix.String(), "error", err)
			}
		}
	}
	log.Info("Query cache ready", "backend", cfg.Cache.Backend, "broadcast", clients.Bus != nil)
	return querycache.New(store, opts), nil
}
