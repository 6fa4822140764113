package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ADMIN_DOTENV_PATH", filepath.Join(dir, "missing.env"))
	t.Setenv("ADMIN_CONFIG_PATH", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != CacheBackendMemory {
		t.Fatalf("cache backend=%q", cfg.Cache.Backend)
	}
	if cfg.Cache.StaleTime.Duration != 5*time.Minute {
		t.Fatalf("stale=%v", cfg.Cache.StaleTime.Duration)
	}
	if !cfg.Quiz.AtomicCorrectToggle {
		t.Fatalf("expected atomic toggle on by default")
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "admin.yaml")
	yml := `
env: production
backend:
  base_url: https://api.example.com/admin/
  timeout: 10s
  max_retries: 1
cache:
  stale_time: 30s
  gc_time: 10s
quiz:
  atomic_correct_toggle: false
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ADMIN_CONFIG_PATH", path)
	t.Setenv("ADMIN_HTTP_ADDR", ":9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "production" {
		t.Fatalf("env=%q", cfg.Env)
	}
	if cfg.Backend.BaseURL != "https://api.example.com/admin" {
		t.Fatalf("base=%q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout.Duration != 10*time.Second || cfg.Backend.MaxRetries != 1 {
		t.Fatalf("backend=%+v", cfg.Backend)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Fatalf("addr=%q", cfg.HTTP.Addr)
	}
	if cfg.Cache.GCTime.Duration != 30*time.Second {
		t.Fatalf("gc time should be raised to stale time, got %v", cfg.Cache.GCTime.Duration)
	}
	if cfg.Quiz.AtomicCorrectToggle {
		t.Fatalf("expected atomic toggle off")
	}
}

func TestLoadRedisRequiresAddr(t *testing.T) {
	isolate(t)
	t.Setenv("ADMIN_CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("ADMIN_BACKEND_URL=http://dotenv:1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ADMIN_DOTENV_PATH", envPath)
	t.Cleanup(func() { _ = os.Unsetenv("ADMIN_BACKEND_URL") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://dotenv:1" {
		t.Fatalf("base=%q", cfg.Backend.BaseURL)
	}
}

func TestLoadBroadcastRequiresAddr(t *testing.T) {
	isolate(t)
	t.Setenv("ADMIN_CACHE_BACKEND", "memory")
	t.Setenv("ADMIN_CACHE_BROADCAST", "true")
	t.Setenv("REDIS_ADDR", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error")
	}

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Cache.Broadcast || cfg.Cache.BroadcastChannel != "admin:qc:invalidate" {
		t.Fatalf("cache=%+v", cfg.Cache)
	}
}

func TestLoadBlankOriginsList(t *testing.T) {
	isolate(t)
	t.Setenv("ADMIN_ALLOWED_ORIGINS", ",")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.HTTP.AllowedOrigins) != 0 {
		t.Fatalf("origins=%v", cfg.HTTP.AllowedOrigins)
	}
}
