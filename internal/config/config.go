package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Источники каталога объектов.
const (
	SourcePostgres = "postgres"
	SourceMinio    = "minio"
)

// Бэкенды кэша рекомендаций.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Env       string `env:"ENV" env-default:"local"`
	HTTP      HTTPConfig
	Source    SourceConfig
	Postgres  PostgresConfig
	Minio     MinioConfig
	Cache     CacheConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Recommend RecommendConfig
}

type HTTPConfig struct {
	Port           int           `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowedOrigins []string      `env:"HTTP_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
}

// SourceConfig откуда сервис читает объекты недвижимости.
type SourceConfig struct {
	Kind string `env:"SOURCE_KIND" env-default:"postgres"`
}

type PostgresConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

// MinioConfig снимок каталога в объектном хранилище.
type MinioConfig struct {
	Endpoint   string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	BucketName string `env:"MINIO_BUCKET" env-default:"rentnova"`
	ObjectName string `env:"MINIO_CATALOG_OBJECT" env-default:"catalog/properties.json"`
	User       string `env:"MINIO_USER"`
	Password   string `env:"MINIO_PASSWORD"`
	UseSSL     bool   `env:"MINIO_USE_SSL" env-default:"false"`
	// Refresh как часто перечитывать снимок каталога.
	Refresh time.Duration `env:"MINIO_CATALOG_REFRESH" env-default:"5m"`
}

type CacheConfig struct {
	Backend string        `env:"CACHE_BACKEND" env-default:"memory"`
	TTL     time.Duration `env:"CACHE_TTL" env-default:"60m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// LLMConfig конфигурация для LLM API (OpenAI и совместимые).
type LLMConfig struct {
	Enabled bool          `env:"LLM_ENABLE" env-default:"false"`
	BaseURL string        `env:"LLM_BASE_URL" env-default:"https://api.openai.com/v1"`
	APIKey  string        `env:"LLM_API_KEY"`
	Model   string        `env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	Timeout time.Duration `env:"LLM_TIMEOUT" env-default:"10s"`
	// RatePerSecond средний допустимый темп запросов к LLM.
	RatePerSecond float64 `env:"LLM_RATE_PER_SECOND" env-default:"2"`
	Burst         int     `env:"LLM_BURST" env-default:"4"`
	// BreakerFailures подряд идущих ошибок, после которых цепь размыкается.
	BreakerFailures uint32        `env:"LLM_BREAKER_FAILURES" env-default:"5"`
	BreakerCooldown time.Duration `env:"LLM_BREAKER_COOLDOWN" env-default:"30s"`
}

type RecommendConfig struct {
	// CandidateLimit сколько объектов читать из источника для одного запроса.
	CandidateLimit int `env:"RECOMMEND_CANDIDATE_LIMIT" env-default:"200"`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read config from environment: " + err.Error())
	}
	return &cfg
}
