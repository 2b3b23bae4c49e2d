package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/gokatarajesh/quiz-session/internal/store"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quiz-session"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Store    Store
	Postgres Postgres
	Redis    Redis
	SQLite   SQLite
	Catalog  Catalog
	Security Security
	Sessions Sessions
}

// Store selects and tunes the session snapshot backend.
type Store struct {
	Backend       string        `env:"STORE_BACKEND" envDefault:"memory"`
	KeyPrefix     string        `env:"STORE_KEY_PREFIX" envDefault:"quiz"`
	OpTimeout     time.Duration `env:"STORE_OP_TIMEOUT" envDefault:"2s"`
	RetryAttempts uint64        `env:"STORE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryBaseWait time.Duration `env:"STORE_RETRY_BASE_DELAY" envDefault:"50ms"`
	SnapshotTTL   time.Duration `env:"STORE_SNAPSHOT_TTL" envDefault:"0s"`
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:""`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:""`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the keyword/value connection string understood by pgx.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds store + catalog cache configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// SQLite points at the single-node snapshot database.
type SQLite struct {
	Path string `env:"SQLITE_PATH" envDefault:"data/sessions.db"`
}

// Catalog configures where quiz data comes from.
type Catalog struct {
	Path            string        `env:"CATALOG_PATH" envDefault:"data.json"`
	URL             string        `env:"CATALOG_URL" envDefault:""`
	FetchTimeout    time.Duration `env:"CATALOG_FETCH_TIMEOUT" envDefault:"5s"`
	CacheTTL        time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"24h"`
	RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" envDefault:"0s"`
}

// Security stores secrets for signing session tokens.
type Security struct {
	SessionSecret   string        `env:"SESSION_TOKEN_SECRET,notEmpty"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"720h"`
}

// Sessions governs in-memory engine lifetime.
type Sessions struct {
	IdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *App) validate() error {
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the %s store", c.Store.Backend)
		}
	case store.BackendPostgres:
		if c.Postgres.User == "" || c.Postgres.Database == "" {
			return fmt.Errorf("PG_USER and PG_DATABASE are required for the %s store", c.Store.Backend)
		}
	case store.BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s store", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Catalog.Path == "" && c.Catalog.URL == "" {
		return fmt.Errorf("one of CATALOG_PATH or CATALOG_URL is required")
	}
	return nil
}
