package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

type BackendConfig struct {
	// BaseURL is the REST API root, e.g. https://api.example.com/api/admin.
	BaseURL string `yaml:"base_url"`

	// Token is sent as a bearer token when the incoming request carries none.
	Token string `yaml:"token"`

	Timeout Duration `yaml:"timeout"`

	// MaxRetries applies to GET requests only. Zero disables retries.
	MaxRetries int `yaml:"max_retries"`
}

type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend   string   `yaml:"backend"`
	StaleTime Duration `yaml:"stale_time"`
	GCTime    Duration `yaml:"gc_time"`

	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisPrefix string `yaml:"redis_prefix"`

	// Broadcast publishes invalidations over Redis pub/sub so several BFF
	// instances with memory caches stay in step.
	Broadcast        bool   `yaml:"broadcast"`
	BroadcastChannel string `yaml:"broadcast_channel"`
}

type QuizConfig struct {
	// AtomicCorrectToggle calls the backend's mark-correct endpoint instead of
	// clearing and setting options one by one.
	AtomicCorrectToggle bool `yaml:"atomic_correct_toggle"`
}

type OtelConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type Config struct {
	Env      string        `yaml:"env"`
	LogLevel string        `yaml:"log_level"`
	HTTP     HTTPConfig    `yaml:"http"`
	Backend  BackendConfig `yaml:"backend"`
	Cache    CacheConfig   `yaml:"cache"`
	Quiz     QuizConfig    `yaml:"quiz"`
	Otel     OtelConfig    `yaml:"otel"`
}
