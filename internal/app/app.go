// Package app monta o núcleo (registro, renderer, estatísticas, tabela de
// comandos) a partir da configuração. Compartilhado pelos binários.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"promo-gateway/core/promo"
	"promo-gateway/core/promo/application"
	"promo-gateway/core/promo/dispatch"
	"promo-gateway/core/promo/domain"
	"promo-gateway/core/promo/infra"
	"promo-gateway/internal/config"

	"github.com/redis/go-redis/v9"
)

type App struct {
	Registry   *infra.Registry
	Limiters   *infra.LimiterStore
	Stats      domain.StatsStore
	Render     application.RenderService
	Cooldown   application.CooldownService
	Dispatcher *dispatch.Dispatcher
	Metrics    *promo.Metrics

	closers []func() error
}

// New monta o App. Com RATE_STATS_ENABLED faz ping no Redis antes de seguir.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Registry: infra.NewRegistry(),
		Limiters: infra.NewLimiterStore(cfg.RateRPS, cfg.RateBurst),
	}

	if cfg.RateStatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateStatsRedisAddr,
			Password: cfg.RateStatsRedisPassword,
			DB:       cfg.RateStatsRedisDB,
		})
		a.closers = append(a.closers, rdb.Close)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("redis stats ping: %w", err)
		}

		a.Stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.RateStatsPrefix),
			infra.WithStatsTTL(cfg.RateStatsTTL),
			infra.WithStatsBucket(cfg.RateStatsBucket),
			infra.WithStatsTrackCallers(cfg.RateStatsTrackCallers),
		)
	} else {
		a.Stats = infra.NewMemoryStatsStore(infra.WithTrackCallers(cfg.RateStatsTrackCallers))
	}

	if cfg.MetricsEnabled {
		a.Metrics = promo.NewMetrics("promo")
	}

	renderPool := infra.NewChanPool(cfg.RenderConcurrency)
	a.Metrics.TrackSlots("render", renderPool)
	a.Render = application.RenderService{
		Renderer: infra.NewCode128Renderer(infra.WithSize(cfg.RenderWidth, cfg.RenderHeight)),
		Slots: application.Slots{
			Pool:           renderPool,
			AcquireTimeout: cfg.RenderTimeout,
		},
	}
	a.Cooldown = application.CooldownService{Registry: a.Registry, Stats: a.Stats}

	a.Dispatcher = dispatch.NewDispatcher()
	a.Dispatcher.Logger = logger
	if a.Metrics != nil {
		a.Dispatcher.Observer = a.Metrics
	}
	if cfg.RateEnabled {
		a.Dispatcher.Throttle = application.ThrottleService{Store: a.Limiters, RetryAfter: cfg.RetryAfter}
	}
	dispatch.Commands{Registry: a.Registry, Render: a.Render, Cooldown: a.Cooldown}.Install(a.Dispatcher)

	return a, nil
}

// API devolve o adapter HTTP ligado ao App.
func (a *App) API(logger *slog.Logger) *promo.API {
	return &promo.API{
		Registry:   a.Registry,
		Render:     a.Render,
		Cooldown:   a.Cooldown,
		Dispatcher: a.Dispatcher,
		Metrics:    a.Metrics,
		Logger:     logger,
	}
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
