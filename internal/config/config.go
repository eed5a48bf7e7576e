// Package config carrega a configuração dos binários a partir do ambiente
// (e de um .env opcional).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080" validate:"required"`

	RateEnabled bool    `env:"RATE_ENABLED" envDefault:"true"`
	RateRPS     float64 `env:"RATE_RPS" envDefault:"10" validate:"gt=0"`
	// 0 = automático: 20, ou 1 quando RATE_RPS < 1 (senão as primeiras ~20
	// passam e parece que o limiter não funciona)
	RateBurst     int           `env:"RATE_BURST" validate:"gte=0"`
	RateKeyHeader string        `env:"RATE_KEY_HEADER" envDefault:"X-Caller"`
	TrustXFF      bool          `env:"TRUST_XFF" envDefault:"false"`
	RetryAfter    time.Duration `env:"RETRY_AFTER" envDefault:"1s" validate:"gte=0"`
	AddHeaders    bool          `env:"ADD_RATELIMIT_HEADERS" envDefault:"false"`

	ConcurrencyMax     int           `env:"CONCURRENCY_MAX" envDefault:"100" validate:"gte=0"`
	ConcurrencyTimeout time.Duration `env:"CONCURRENCY_TIMEOUT" envDefault:"0s" validate:"gte=0"`

	RenderConcurrency int           `env:"RENDER_CONCURRENCY" envDefault:"8" validate:"gte=0"`
	RenderTimeout     time.Duration `env:"RENDER_TIMEOUT" envDefault:"2s" validate:"gte=0"`
	RenderWidth       int           `env:"RENDER_WIDTH" envDefault:"400" validate:"gt=0"`
	RenderHeight      int           `env:"RENDER_HEIGHT" envDefault:"120" validate:"gt=0"`

	InputTimeout time.Duration `env:"INPUT_TIMEOUT" envDefault:"60s" validate:"gte=0"`

	RateStatsEnabled       bool          `env:"RATE_STATS_ENABLED" envDefault:"false"`
	RateStatsRedisAddr     string        `env:"RATE_STATS_REDIS_ADDR" validate:"omitempty,hostname_port"`
	RateStatsRedisPassword string        `env:"RATE_STATS_REDIS_PASSWORD"`
	RateStatsRedisDB       int           `env:"RATE_STATS_REDIS_DB" envDefault:"0" validate:"gte=0"`
	RateStatsPrefix        string        `env:"RATE_STATS_PREFIX" envDefault:"promo:triggers"`
	RateStatsTTL           time.Duration `env:"RATE_STATS_TTL" envDefault:"24h" validate:"gte=0"`
	RateStatsBucket        string        `env:"RATE_STATS_BUCKET" envDefault:"minute" validate:"oneof=minute none"`
	RateStatsTrackCallers  bool          `env:"RATE_STATS_TRACK_CALLERS" envDefault:"false"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50" validate:"gt=0"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3" validate:"gte=0"`
	Environment   string `env:"ENVIRONMENT"`
}

// Load lê o .env (se existir) e depois o ambiente do processo.
func Load(dotenvFiles ...string) (Config, error) {
	// .env é opcional
	_ = godotenv.Load(dotenvFiles...)
	return parse(env.Options{})
}

// FromMap lê a configuração de um mapa em vez do ambiente do processo.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

var validate = validator.New()

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.RateStatsBucket = strings.ToLower(strings.TrimSpace(cfg.RateStatsBucket))

	if cfg.RateBurst == 0 {
		cfg.RateBurst = 20
		if cfg.RateRPS > 0 && cfg.RateRPS < 1 {
			cfg.RateBurst = 1
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.RateStatsEnabled && strings.TrimSpace(cfg.RateStatsRedisAddr) == "" {
		return Config{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	return cfg, nil
}
