package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/lesson-admin/internal/platform/envutil"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if dd, err := time.ParseDuration(s); err == nil {
		d.Duration = dd
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or integer seconds: %w", err)
	}
	d.Duration = time.Duration(n) * time.Second
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8090",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
			MetricsEnabled: true,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: Duration{Duration: 30 * time.Second},
		},
		Cache: CacheConfig{
			Backend:          CacheBackendMemory,
			StaleTime:        Duration{Duration: 5 * time.Minute},
			GCTime:           Duration{Duration: 30 * time.Minute},
			RedisPrefix:      "admin:qc:",
			BroadcastChannel: "admin:qc:invalidate",
		},
		Quiz: QuizConfig{AtomicCorrectToggle: true},
		Otel: OtelConfig{ServiceName: "lesson-admin"},
	}
}

// Load resolves configuration in order: defaults, .env file, YAML file, environment.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("ADMIN_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("ADMIN_DOTENV_PATH"))
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.LogLevel = envutil.String("LOG_LEVEL", cfg.LogLevel)

	cfg.HTTP.Addr = envutil.String("ADMIN_HTTP_ADDR", cfg.HTTP.Addr)
	if v := strings.TrimSpace(os.Getenv("ADMIN_ALLOWED_ORIGINS")); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}
	cfg.HTTP.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.HTTP.MetricsEnabled)

	cfg.Backend.BaseURL = envutil.String("ADMIN_BACKEND_URL", cfg.Backend.BaseURL)
	cfg.Backend.Token = envutil.String("ADMIN_BACKEND_TOKEN", cfg.Backend.Token)
	cfg.Backend.Timeout.Duration = envutil.Duration("ADMIN_BACKEND_TIMEOUT", cfg.Backend.Timeout.Duration)
	cfg.Backend.MaxRetries = envutil.Int("ADMIN_BACKEND_MAX_RETRIES", cfg.Backend.MaxRetries)

	cfg.Cache.Backend = envutil.String("ADMIN_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.StaleTime.Duration = envutil.Duration("ADMIN_CACHE_STALE_TIME", cfg.Cache.StaleTime.Duration)
	cfg.Cache.GCTime.Duration = envutil.Duration("ADMIN_CACHE_GC_TIME", cfg.Cache.GCTime.Duration)
	cfg.Cache.RedisAddr = envutil.String("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisDB = envutil.Int("REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.RedisPrefix = envutil.String("ADMIN_CACHE_REDIS_PREFIX", cfg.Cache.RedisPrefix)
	cfg.Cache.Broadcast = envutil.Bool("ADMIN_CACHE_BROADCAST", cfg.Cache.Broadcast)

	cfg.Quiz.AtomicCorrectToggle = envutil.Bool("ADMIN_ATOMIC_CORRECT_TOGGLE", cfg.Quiz.AtomicCorrectToggle)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8090"
	}
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")
	if cfg.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if cfg.Backend.MaxRetries < 0 {
		return fmt.Errorf("invalid backend.max_retries=%d", cfg.Backend.MaxRetries)
	}
	if cfg.Backend.Timeout.Duration <= 0 {
		cfg.Backend.Timeout = Duration{Duration: 30 * time.Second}
	}

	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	switch cfg.Cache.Backend {
	case "":
		cfg.Cache.Backend = CacheBackendMemory
	case CacheBackendMemory:
	case CacheBackendRedis:
		if strings.TrimSpace(cfg.Cache.RedisAddr) == "" {
			return errors.New("cache.redis_addr is required when cache.backend=redis")
		}
	default:
		return fmt.Errorf("invalid cache.backend=%q", cfg.Cache.Backend)
	}
	if cfg.Cache.Broadcast && strings.TrimSpace(cfg.Cache.RedisAddr) == "" {
		return errors.New("cache.redis_addr is required when cache.broadcast is on")
	}
	if cfg.Cache.StaleTime.Duration < 0 {
		return errors.New("cache.stale_time must not be negative")
	}
	if cfg.Cache.GCTime.Duration > 0 && cfg.Cache.GCTime.Duration < cfg.Cache.StaleTime.Duration {
		cfg.Cache.GCTime = cfg.Cache.StaleTime
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
