package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/actuallystonmai/product-search-service/internal/cache"
	"github.com/actuallystonmai/product-search-service/internal/catalog"
	"github.com/actuallystonmai/product-search-service/internal/config"
	"github.com/actuallystonmai/product-search-service/internal/handler"
	"github.com/actuallystonmai/product-search-service/internal/logging"
	"github.com/actuallystonmai/product-search-service/internal/metrics"
	"github.com/actuallystonmai/product-search-service/internal/recommend"
	"github.com/actuallystonmai/product-search-service/internal/repository"
	"github.com/actuallystonmai/product-search-service/internal/router"
	"github.com/actuallystonmai/product-search-service/internal/service"
	"github.com/actuallystonmai/product-search-service/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := service.Deps{}

	// ------------ PostgreSQL (query log) ---------------
	var recorder *service.Recorder
	if cfg.Database.URL != "" {
		pool, err := connectDB(ctx, cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		// for migrate-down using CLI command
		if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
			if err := runMigration(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
				logging.Fatal().Err(err).Msg("failed to migrate down")
			}
			logging.Info().Msg("migrations dropped")
			return
		}

		if err := runMigration(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
			logging.Fatal().Err(err).Msg("failed to migrate up")
		}

		repo := repository.New(pool)
		recorder = service.NewRecorder(repo, cfg.Database.QueryLogBuffer, cfg.Database.QueryLogWorkers)
		deps.Recorder = recorder
		deps.Stats = repo
		deps.Database = repo
	} else {
		logging.Info().Msg("DATABASE_URL not set, query log disabled")
	}

	// ------------ Redis (result cache) ---------------
	var resultCache *cache.Cache
	if cfg.Redis.URL != "" {
		resultCache, err = connectCache(ctx, cfg)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, result cache disabled")
		} else {
			deps.Cache = resultCache
			deps.CacheBackend = resultCache
		}
	}

	// ------------ Catalog + Recommendations ---------------
	if err := checkSeed(cfg); err != nil {
		logging.Fatal().Err(err).Msg("failed to seed demo data")
	}

	index := catalog.Load(cfg.Data.Dir, cfg.Data.CatalogFiles)
	recs := recommend.Load(cfg.RecommendationsPath())
	metrics.CatalogProducts.Set(float64(index.Len()))
	metrics.RecommendationEntries.Set(float64(recs.Len()))
	logging.Info().Int("products", index.Len()).Int("recommendations", recs.Len()).Msg("data ready")

	// ---------------- Server --------------------
	svc := service.NewService(index, recs, deps)
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(handler.NewHandler(svc), router.Options{
			RequestTimeout: cfg.Server.RequestTimeout,
			RateLimit:      cfg.RateLimit.Requests,
			RateWindow:     cfg.RateLimit.Window,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
	}
	if recorder != nil {
		recorder.Close()
	}
	if resultCache != nil {
		if err := resultCache.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

func connectDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.PoolSize)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := waitForDB(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logging.Info().Msg("connected to PostgreSQL")
	return pool, nil
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logging.Info().Int("attempt", i+1).Msg("waiting for database")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func runMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration %s: %w", filepath.Base(path), err)
	}
	logging.Info().Str("migration", filepath.Base(path)).Msg("migration applied")
	return nil
}

func connectCache(ctx context.Context, cfg *config.Config) (*cache.Cache, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	c := cache.NewCache(client, cfg.Redis.CacheTTL)
	if err := c.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	removed, err := c.Clear(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("failed to clear stale search results")
	}
	logging.Info().Int("cleared", removed).Msg("connected to Redis")
	return c, nil
}

// checkSeed writes demo artifacts when seeding is enabled and no catalog exists yet.
func checkSeed(cfg *config.Config) error {
	if !cfg.Data.SeedDemo {
		return nil
	}
	if path := catalog.Resolve(cfg.Data.Dir, cfg.Data.CatalogFiles); path != "" {
		logging.Info().Str("path", path).Msg("catalog present, skipping seed")
		return nil
	}
	return seeds.Setup(cfg.Data.Dir, cfg.Data.CatalogFiles[0], cfg.Data.RecommendationsFile)
}
