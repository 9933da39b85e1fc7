package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpapp "rentnova/internal/app/http"
	"rentnova/internal/config"
	"rentnova/internal/lib/cache"
	"rentnova/internal/lib/logger/sl"
	"rentnova/internal/lib/metrics"
	"rentnova/internal/lib/summarizer"
	"rentnova/internal/repository/catalog_repository"
	"rentnova/internal/repository/property_repository"
	"rentnova/internal/services/recommendation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	HTTPServer *httpapp.App
	Summarizer summarizer.Summarizer
	Metrics    *metrics.Recorder

	closers []func()
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	a := &App{}

	source, err := a.newSource(ctx, log, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store := a.newCache(log, cfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry, log)

	sum := summarizer.NewFromConfig(cfg.LLM, log)

	log.Info("services initialized",
		slog.String("source", cfg.Source.Kind),
		slog.String("cache", cfg.Cache.Backend),
		slog.Bool("llm_enabled", sum.IsEnabled()),
	)

	engine := recommendation.NewEngine(log, store, sum, recorder,
		recommendation.WithTTL(cfg.Cache.TTL),
		recommendation.WithSummaryTimeout(cfg.LLM.Timeout),
	)
	svc := recommendation.NewService(log, source, engine, cfg.Recommend.CandidateLimit)

	a.HTTPServer = httpapp.New(log, cfg.HTTP, svc, recorder, registry)
	a.Summarizer = sum
	a.Metrics = recorder

	return a, nil
}

func (a *App) newSource(ctx context.Context, log *slog.Logger, cfg *config.Config) (recommendation.PropertySource, error) {
	switch cfg.Source.Kind {
	case config.SourceMinio:
		fetcher, err := catalog_repository.NewMinioFetcher(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return catalog_repository.NewCatalogRepository(fetcher, cfg.Minio.Refresh, log), nil

	case config.SourcePostgres, "":
		if cfg.Postgres.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for source %q", config.SourcePostgres)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(pingCtx, cfg.Postgres.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		return property_repository.NewPropertyRepository(pool, log), nil

	default:
		return nil, fmt.Errorf("unknown property source %q", cfg.Source.Kind)
	}
}

func (a *App) newCache(log *slog.Logger, cfg *config.Config) cache.Store {
	if cfg.Cache.Backend == config.CacheRedis {
		client := cache.NewRedisClient(cfg.Redis)
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close redis client", sl.Err(err))
			}
		})
		return cache.NewRedis(client, log)
	}
	return cache.NewMemory()
}

// Close освобождает соединения с хранилищами.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
