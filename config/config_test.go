package config

import (
	"strings"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.API.BaseURL != "https://api.kinebilan.fr/api" {
		t.Errorf("unexpected API base URL: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("unexpected API timeout: %v", cfg.API.Timeout)
	}
	if cfg.Storage.Backend != StorageBackendFile {
		t.Errorf("unexpected storage backend: %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path == "" {
		t.Error("expected a default credential path")
	}
	if cfg.Profile.IDPath != "id" {
		t.Errorf("unexpected profile id path: %q", cfg.Profile.IDPath)
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://staging.kinebilan.fr/api/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("PROFILE_ID_PATH", "account.uid")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.API.BaseURL != "https://staging.kinebilan.fr/api" {
		t.Errorf("trailing slash not trimmed: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.API.Timeout)
	}
	if cfg.Storage.Backend != StorageBackendRedis {
		t.Errorf("unexpected backend: %q", cfg.Storage.Backend)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("unexpected redis addr: %q", cfg.Redis.Addr)
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis db: %d", cfg.Redis.DB)
	}
	if cfg.Profile.IDPath != "account.uid" {
		t.Errorf("unexpected id path: %q", cfg.Profile.IDPath)
	}
}

func TestStorageBackend_UnmarshalText(t *testing.T) {
	var b StorageBackend
	if err := b.UnmarshalText([]byte("FILE")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != StorageBackendFile {
		t.Errorf("unexpected backend: %q", b)
	}

	if err := b.UnmarshalText([]byte("sqlite")); err == nil {
		t.Error("expected error for invalid backend")
	} else if !strings.Contains(err.Error(), "valid options") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestAppConfig_SanitizeClampsTimeout(t *testing.T) {
	cfg := AppConfig{API: APIConfig{Timeout: -1}}
	cfg.Sanitize()
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("timeout not clamped: %v", cfg.API.Timeout)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Error("expected dev mode via NODE_ENV")
	}
}
