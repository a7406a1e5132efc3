// Package pipeline merges every source's records into the final article
// list: normalize, recency-filter, dedupe, sort, cap, translate, and pad
// with fallback articles so the page is never empty.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/habarihub/habarihub/internal/feed"
	"github.com/habarihub/habarihub/internal/metrics"
	"github.com/habarihub/habarihub/internal/source"
	"github.com/habarihub/habarihub/internal/translate"
)

// minArticles is the floor below which the fixed fallback set is appended.
const minArticles = 5

type Pipeline struct {
	fetchers      []source.Fetcher
	normalizer    *feed.Normalizer
	translator    *translate.Translator
	metrics       *metrics.Metrics
	recencyWindow time.Duration
	maxArticles   int
}

func New(fetchers []source.Fetcher, normalizer *feed.Normalizer, translator *translate.Translator, m *metrics.Metrics, recencyWindow time.Duration, maxArticles int) *Pipeline {
	return &Pipeline{
		fetchers:      fetchers,
		normalizer:    normalizer,
		translator:    translator,
		metrics:       m,
		recencyWindow: recencyWindow,
		maxArticles:   maxArticles,
	}
}

type fetchResult struct {
	meta feed.SourceMeta
	raws []feed.RawArticle
	err  error
}

// Refresh runs one full aggregation cycle. Source failures are absorbed per
// source; only an unexpected panic during merging surfaces as an error, and
// even then the fallback set is returned so the UI stays populated.
func (p *Pipeline) Refresh(ctx context.Context) (articles []feed.Article, err error) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during refresh cycle", "panic", r)
			p.metrics.SetError(fmt.Sprintf("refresh panic: %v", r))
			articles = FallbackArticles(time.Now())
			err = fmt.Errorf("refresh cycle failed: %v", r)
		}
	}()

	results := p.fetchAll(ctx)
	fetchedAt := time.Now()

	var candidates []feed.Article
	for _, res := range results {
		if res.err != nil {
			slog.Warn("⚠️ source failed, skipping", "source", res.meta.Name, "err", res.err)
			p.metrics.IncrementSourceFailures()
			continue
		}
		p.metrics.AddArticlesFetched(len(res.raws))
		for _, raw := range res.raws {
			if a, ok := p.normalizer.Normalize(raw, res.meta, fetchedAt); ok {
				candidates = append(candidates, a)
			}
		}
	}

	candidates = p.filterRecent(candidates, fetchedAt)
	candidates = p.dedupe(candidates)

	// Stable sort keeps source order for identical timestamps.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
	})

	if len(candidates) > p.maxArticles {
		candidates = candidates[:p.maxArticles]
	}

	p.translateAll(ctx, candidates)

	if len(candidates) < minArticles {
		slog.Warn("too few articles after filtering, appending fallback set", "count", len(candidates))
		candidates = append(candidates, FallbackArticles(fetchedAt)...)
	}

	p.metrics.RecordRefresh(len(candidates), time.Since(started))
	slog.Info("✅ refresh cycle complete", "articles", len(candidates), "took", time.Since(started))
	return candidates, nil
}

// fetchAll dispatches every fetcher concurrently and waits for all of them
// to settle. A slow or broken source costs at most its own timeout and never
// blocks the others' results.
func (p *Pipeline) fetchAll(ctx context.Context) []fetchResult {
	results := make(chan fetchResult, len(p.fetchers))
	var wg sync.WaitGroup

	for _, f := range p.fetchers {
		wg.Add(1)
		go func(f source.Fetcher) {
			defer wg.Done()
			raws, err := f.Fetch(ctx)
			results <- fetchResult{meta: f.Meta(), raws: raws, err: err}
		}(f)
	}

	wg.Wait()
	close(results)

	collected := make([]fetchResult, 0, len(p.fetchers))
	for res := range results {
		collected = append(collected, res)
	}

	// Channel drain order is nondeterministic; restore config order so title
	// dedup precedence follows the source list.
	byName := make(map[string]fetchResult, len(collected))
	for _, res := range collected {
		byName[res.meta.Name] = res
	}
	ordered := make([]fetchResult, 0, len(collected))
	for _, f := range p.fetchers {
		if res, ok := byName[f.Name()]; ok {
			ordered = append(ordered, res)
		}
	}
	return ordered
}

func (p *Pipeline) filterRecent(articles []feed.Article, now time.Time) []feed.Article {
	cutoff := now.Add(-p.recencyWindow)
	kept := articles[:0]
	for _, a := range articles {
		if a.PublishedAt.After(cutoff) {
			kept = append(kept, a)
		}
	}
	return kept
}

// dedupe removes exact-title duplicates, first occurrence wins.
func (p *Pipeline) dedupe(articles []feed.Article) []feed.Article {
	seen := make(map[string]struct{}, len(articles))
	kept := articles[:0]
	for _, a := range articles {
		if _, dup := seen[a.Title]; dup {
			p.metrics.IncrementDuplicatesFiltered()
			continue
		}
		seen[a.Title] = struct{}{}
		kept = append(kept, a)
	}
	return kept
}

// translateAll resolves translated fields for the surviving articles. Title
// and summary go through the cache independently; articles that don't need
// translation were already copied verbatim by the normalizer. Calls are
// dispatched concurrently; the translator's own rate limiter paces them.
func (p *Pipeline) translateAll(ctx context.Context, articles []feed.Article) {
	var wg sync.WaitGroup
	for i := range articles {
		if !articles[i].NeedsTranslation {
			continue
		}
		wg.Add(1)
		go func(a *feed.Article) {
			defer wg.Done()
			a.TitleTranslated = p.translator.Translate(ctx, a.Title)
			a.SummaryTranslated = p.translator.Translate(ctx, a.Summary)
		}(&articles[i])
	}
	wg.Wait()
}
