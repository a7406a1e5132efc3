// Package translate turns article text into the target language through a
// chain of providers. Every failure degrades to "show original text"; a
// translation call never returns an error to the pipeline.
package translate

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/habarihub/habarihub/internal/cache"
	"github.com/habarihub/habarihub/internal/metrics"
	"github.com/habarihub/habarihub/internal/ratelimit"
)

// Provider is one upstream translation service.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Translator memoizes translations in a bounded-TTL cache and walks the
// provider chain on a miss.
type Translator struct {
	providers  []Provider
	cache      *cache.TranslationCache
	budget     *ratelimit.TranslationBudget
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	targetLang string
}

type Options struct {
	Providers  []Provider
	Cache      *cache.TranslationCache
	Budget     *ratelimit.TranslationBudget
	RatePerSec float64
	Metrics    *metrics.Metrics
	TargetLang string
}

func New(opts Options) *Translator {
	return &Translator{
		providers:  opts.Providers,
		cache:      opts.Cache,
		budget:     opts.Budget,
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		metrics:    opts.Metrics,
		targetLang: opts.TargetLang,
	}
}

// Translate returns the target-language version of text, or text itself when
// every provider fails or the daily budget is spent. Successful results are
// cached; failures are not, so a later call retries from scratch.
func (t *Translator) Translate(ctx context.Context, text string) string {
	if text == "" {
		return text
	}

	if cached, ok := t.cache.Get(text); ok {
		t.budget.RecordCacheHit()
		return cached
	}

	if !t.budget.Allow() {
		return text
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return text
	}

	for _, p := range t.providers {
		result, err := p.Translate(ctx, text, t.targetLang)
		if err != nil || result == "" {
			slog.Debug("translation provider failed", "provider", p.Name(), "err", err)
			continue
		}
		if err := t.budget.Use(); err != nil {
			return text
		}
		t.cache.Set(text, result)
		t.metrics.IncrementSuccessfulTranslations()
		return result
	}

	slog.Warn("⚠️ all translation providers failed, using original text")
	t.metrics.IncrementFailedTranslations()
	return text
}
