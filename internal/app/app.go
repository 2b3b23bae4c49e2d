package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-session/internal/auth"
	"github.com/gokatarajesh/quiz-session/internal/auth/jwt"
	"github.com/gokatarajesh/quiz-session/internal/catalog"
	"github.com/gokatarajesh/quiz-session/internal/config"
	"github.com/gokatarajesh/quiz-session/internal/logging"
	"github.com/gokatarajesh/quiz-session/internal/server"
	"github.com/gokatarajesh/quiz-session/internal/session"
	"github.com/gokatarajesh/quiz-session/internal/store"
	ws "github.com/gokatarajesh/quiz-session/pkg/http/ws"
)

// Application aggregates shared infrastructure (store, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool   *pgxpool.Pool
	redis  *redis.Client
	sqlite *store.SQLite
	http   *http.Server

	janitor   *session.Janitor
	refresher *catalog.Refresher
}

// New bootstraps logger, session store, catalog and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Str("store_backend", cfg.Store.Backend).Msg("starting application bootstrap")

	a := &Application{cfg: cfg, logger: logger}

	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	}

	backend, err := a.openStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	provider := a.catalogProvider()
	loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.FetchTimeout)
	holder := catalog.Load(loadCtx, provider)
	cancel()
	if err := holder.LastError(); err != nil {
		logger.Error().Err(err).Msg("catalog unavailable; sessions stay in the start menu")
	} else {
		cat, _ := holder.Get()
		logger.Info().Int("categories", len(cat.Categories)).Msg("catalog loaded")
	}
	if cfg.Catalog.RefreshInterval > 0 {
		a.refresher = catalog.NewRefresher(holder, provider, cfg.Catalog.RefreshInterval, cfg.Catalog.FetchTimeout, logger)
	}

	authSvc := auth.NewService(jwt.TokenConfig{
		Secret: []byte(cfg.Security.SessionSecret),
		TTL:    cfg.Security.SessionTokenTTL,
		Issuer: cfg.Name,
	}, logger)

	manager := session.NewManager(a.wrapStore(backend), cfg.Store.KeyPrefix, logger)
	a.janitor = session.NewJanitor(manager, cfg.Sessions.IdleTimeout, cfg.Sessions.SweepInterval, logger)
	sessionSvc := session.NewService(manager, holder, logger)

	a.http = server.NewHTTPServer(cfg, logger, backend, server.Handlers{
		Auth:      auth.NewHTTPHandlers(authSvc, logger),
		AuthSvc:   authSvc,
		Session:   session.NewHTTPHandlers(sessionSvc, logger),
		SessionWS: session.NewWSHandler(sessionSvc, ws.NewHub(logger), authSvc, logger),
	})

	return a, nil
}

type pingStore interface {
	store.Store
	server.Pinger
}

func (a *Application) openStore(ctx context.Context) (pingStore, error) {
	cfg := a.cfg
	switch cfg.Store.Backend {
	case store.BackendRedis:
		return store.NewRedis(a.redis, cfg.Store.SnapshotTTL), nil
	case store.BackendPostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("parse postgres config: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.Postgres.MaxConns)
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool
		return store.NewPostgres(pool), nil
	case store.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		db, err := store.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.sqlite = db
		return db, nil
	default:
		return store.NewMemory(), nil
	}
}

// wrapStore adds timeouts and retries in front of network backends.
func (a *Application) wrapStore(backend store.Store) store.Store {
	switch a.cfg.Store.Backend {
	case store.BackendRedis, store.BackendPostgres:
		return store.NewRetrying(backend, store.RetryOptions{
			MaxRetries: a.cfg.Store.RetryAttempts,
			BaseDelay:  a.cfg.Store.RetryBaseWait,
			OpTimeout:  a.cfg.Store.OpTimeout,
		})
	default:
		return backend
	}
}

func (a *Application) catalogProvider() catalog.Provider {
	cfg := a.cfg.Catalog
	if cfg.URL == "" {
		return catalog.NewFileProvider(cfg.Path)
	}

	remote := catalog.NewHTTPProvider(cfg.URL, &http.Client{Timeout: cfg.FetchTimeout})
	if a.redis == nil {
		return remote
	}
	return catalog.NewCachedProvider(remote, catalog.NewRedisCache(a.redis, cfg.CacheTTL), cfg.URL, a.logger)
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers()

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if a.refresher != nil {
		a.refresher.Stop()
	}
	a.janitor.Stop()
	a.close()

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers() {
	go a.janitor.Run()
	if a.refresher != nil {
		go a.refresher.Run()
	}
}

func (a *Application) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			a.logger.Error().Err(err).Msg("sqlite shutdown error")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}
