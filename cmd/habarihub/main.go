package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/habarihub/habarihub/internal/cache"
	"github.com/habarihub/habarihub/internal/config"
	"github.com/habarihub/habarihub/internal/feed"
	"github.com/habarihub/habarihub/internal/feedcache"
	"github.com/habarihub/habarihub/internal/logger"
	"github.com/habarihub/habarihub/internal/metrics"
	"github.com/habarihub/habarihub/internal/pipeline"
	"github.com/habarihub/habarihub/internal/ratelimit"
	"github.com/habarihub/habarihub/internal/retry"
	"github.com/habarihub/habarihub/internal/server"
	"github.com/habarihub/habarihub/internal/source"
	"github.com/habarihub/habarihub/internal/translate"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	descriptors, err := source.LoadSources(cfg.SourcesConfigPath)
	if err != nil {
		log.Fatalf("load sources: %v", err)
	}
	fetchers, err := source.NewFetchers(descriptors, cfg.FetchTimeout)
	if err != nil {
		log.Fatalf("build fetchers: %v", err)
	}
	logger.Info("sources configured", "count", len(fetchers))

	m := metrics.New()
	budget := ratelimit.NewTranslationBudget(cfg.TranslationBudget)
	translationCache := cache.New(cfg.TranslationTTL, cfg.TranslationMaxItems)

	providers := []translate.Provider{translate.NewGoogleProvider()}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, translate.NewOpenAIProvider(cfg.OpenAIAPIKey))
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := translate.NewGeminiProvider(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini provider unavailable", "err", err)
		} else {
			defer gemini.Close()
			providers = append(providers, gemini)
		}
	}

	translator := translate.New(translate.Options{
		Providers:  providers,
		Cache:      translationCache,
		Budget:     budget,
		RatePerSec: cfg.TranslationRate,
		Metrics:    m,
		TargetLang: cfg.TargetLanguage,
	})

	normalizer := feed.NewNormalizer(cfg.TargetLanguage)
	agg := pipeline.New(fetchers, normalizer, translator, m, cfg.RecencyWindow, cfg.MaxArticles)
	feedCache := feedcache.New(cfg.FeedCacheTTL)

	// Warm the cache before serving so the first visitor never sees an empty
	// in-flight window.
	if _, err := feedCache.GetOrRefresh(ctx, agg.Refresh); err != nil {
		logger.Warn("initial refresh failed", "err", err)
	}

	// Scheduled warm refreshes keep the cache from going stale between
	// visitors. A failed cycle is retried; per-source fetches inside a cycle
	// stay single-attempt.
	cronManager := cron.New()
	_, err = cronManager.AddFunc(cfg.RefreshSchedule, func() {
		retryCfg := retry.Config{MaxAttempts: 2, Delay: 30 * time.Second}
		err := retry.WithRetry(ctx, retryCfg, func() error {
			feedCache.Invalidate()
			_, err := feedCache.GetOrRefresh(ctx, agg.Refresh)
			return err
		})
		if err != nil {
			logger.Error("scheduled refresh failed", "err", err)
		}
	})
	if err != nil {
		log.Fatalf("schedule refresh: %v", err)
	}
	cronManager.Start()
	defer cronManager.Stop()

	srv, err := server.New(feedCache, agg.Refresh, m, budget, cfg.Port)
	if err != nil {
		log.Fatalf("server: %v", err)
	}
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
	logger.Info("HabariHub stopped")
}
