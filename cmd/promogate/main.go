package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promo-gateway/core/promo"
	"promo-gateway/core/promo/infra"
	"promo-gateway/internal/app"
	"promo-gateway/internal/config"
	"promo-gateway/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, logCloser := logging.Setup(logging.Options{
		Service:     "promogate",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
	})
	defer func() { _ = logCloser.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()
	a.Limiters.StartJanitor(ctx)

	requestPool := infra.NewChanPool(cfg.ConcurrencyMax)
	a.Metrics.TrackSlots("requests", requestPool)

	h := http.Handler(a.API(logger).Routes())
	h = promo.ConcurrencyMiddleware(promo.ConcurrencyOptions{
		Pool:           requestPool,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.ConcurrencyTimeout,
		RetryAfter:     cfg.RetryAfter,
		Exempt:         []string{"/metrics"},
	})(h)
	h = promo.ThrottleMiddleware(promo.ThrottleOptions{
		Store:               a.Limiters,
		KeyHeader:           cfg.RateKeyHeader,
		TrustXForwardedFor:  cfg.TrustXFF,
		RejectStatus:        http.StatusTooManyRequests,
		RetryAfter:          cfg.RetryAfter,
		AddRateLimitHeaders: cfg.AddHeaders,
		Disabled:            !cfg.RateEnabled,
	})(h)
	h = promo.RequestIDMiddleware(h)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("promogate listening", "addr", cfg.ListenAddr)
	logger.Info("rate", "enabled", cfg.RateEnabled, "rps", cfg.RateRPS, "burst", cfg.RateBurst, "key_header", cfg.RateKeyHeader, "trust_xff", cfg.TrustXFF)
	logger.Info("rate-stats", "redis", cfg.RateStatsEnabled, "addr", cfg.RateStatsRedisAddr, "bucket", cfg.RateStatsBucket, "ttl", cfg.RateStatsTTL, "track_callers", cfg.RateStatsTrackCallers)
	logger.Info("concurrency", "max", cfg.ConcurrencyMax, "acquire_timeout", cfg.ConcurrencyTimeout, "render_max", cfg.RenderConcurrency, "render_timeout", cfg.RenderTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
