package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "storefront"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	SnapshotBackendRedis  = "redis"
	SnapshotBackendSQLite = "sqlite"
	SnapshotBackendMemory = "memory"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Sync     SyncConfig
	Session  SessionConfig
	Redis    RedisConfig
	Snapshot SnapshotConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Snapshot.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LoginURL     string `envconfig:"STOREFRONT_LOGIN_URL" default:"/login"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the authoritative commerce API.
type BackendConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_BACKEND_TIMEOUT" default:"10s"`
}

// SyncConfig tunes the cart resync throttle and the per-line mutation debounce.
type SyncConfig struct {
	CartThrottle     time.Duration `envconfig:"STOREFRONT_SYNC_CART_THROTTLE" default:"1200ms"`
	MutationDebounce time.Duration `envconfig:"STOREFRONT_SYNC_MUTATION_DEBOUNCE" default:"500ms"`
}

// SessionConfig bounds the in-memory state the session manager holds per
// bearer token. Persisted snapshots survive an eviction.
type SessionConfig struct {
	IdleTTL     time.Duration `envconfig:"STOREFRONT_SESSION_IDLE_TTL" default:"30m"`
	MaxSessions int           `envconfig:"STOREFRONT_SESSION_MAX" default:"10000"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SnapshotConfig selects where persisted client state (cart, wishlist,
// selected currency, login flag) lives across restarts.
type SnapshotConfig struct {
	Backend    string `envconfig:"STOREFRONT_SNAPSHOT_BACKEND" default:"memory"`
	SQLitePath string `envconfig:"STOREFRONT_SNAPSHOT_SQLITE_PATH" default:"storefront_state.db"`
}

func (s SnapshotConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case SnapshotBackendRedis, SnapshotBackendSQLite, SnapshotBackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown snapshot backend %q", s.Backend)
	}
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
