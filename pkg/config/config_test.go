package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Backend.BaseURL != "https://api.example.test/v1" {
		t.Fatalf("unexpected backend base url: %q", cfg.Backend.BaseURL)
	}
	if got := cfg.Sync.CartThrottle; got != 1200*time.Millisecond {
		t.Fatalf("expected default cart throttle 1.2s, got %v", got)
	}
	if got := cfg.Sync.MutationDebounce; got != 500*time.Millisecond {
		t.Fatalf("expected default debounce 500ms, got %v", got)
	}
	if cfg.Snapshot.Backend != SnapshotBackendMemory {
		t.Fatalf("expected memory snapshot default, got %q", cfg.Snapshot.Backend)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv("STOREFRONT_BACKEND_BASE_URL"); err != nil {
		t.Fatalf("failed to unset backend url: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownSnapshotBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("STOREFRONT_SNAPSHOT_BACKEND", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown snapshot backend to fail validation")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("STOREFRONT_APP_ENV", "production")
	t.Setenv("STOREFRONT_APP_PORT", "8081")
	t.Setenv("STOREFRONT_BACKEND_BASE_URL", "https://api.example.test/v1")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "Development"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "PRODUCTION"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
