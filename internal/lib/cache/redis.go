package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rentnova/internal/config"
	"rentnova/internal/domain"
	"rentnova/internal/lib/logger/sl"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Redis кэш результатов в Redis для нескольких экземпляров сервиса.
// Срок жизни отдаётся Redis, просроченные ключи он удаляет сам.
type Redis struct {
	client redis.Cmdable
	log    *slog.Logger
}

// NewRedisClient создаёт клиента Redis по конфигурации.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedis(client redis.Cmdable, log *slog.Logger) *Redis {
	return &Redis{client: client, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) (domain.CachedRecommendations, bool) {
	const op = "cache.Redis.Get"

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache read failed", slog.String("op", op), slog.String("cache_key", key), sl.Err(err))
		}
		return domain.CachedRecommendations{}, false
	}

	value, err := decode(raw)
	if err != nil {
		r.log.Warn("cache entry is corrupted", slog.String("op", op), slog.String("cache_key", key), sl.Err(err))
		return domain.CachedRecommendations{}, false
	}

	return value, true
}

func (r *Redis) Set(ctx context.Context, key string, value domain.CachedRecommendations, ttl time.Duration) {
	const op = "cache.Redis.Set"

	raw, err := encode(value)
	if err != nil {
		r.log.Warn("failed to encode cache entry", slog.String("op", op), sl.Err(err))
		return
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		r.log.Warn("cache write failed", slog.String("op", op), slog.String("cache_key", key), sl.Err(err))
	}
}

func encode(v domain.CachedRecommendations) ([]byte, error) {
	return json.Marshal(v)
}

func decode(raw []byte) (domain.CachedRecommendations, error) {
	var v domain.CachedRecommendations
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.CachedRecommendations{}, err
	}
	return v, nil
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
)
