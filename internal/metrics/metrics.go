package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched        int64
	ArticlesAggregated     int64
	SourceFailures         int64
	DuplicatesFiltered     int64
	SuccessfulTranslations int64
	FailedTranslations     int64
	RefreshCycles          int64

	// Timings
	LastRefreshDuration    time.Duration
	TotalRefreshDuration   time.Duration
	AverageRefreshDuration time.Duration

	// Status
	LastRefreshTime time.Time
	LastErrorTime   time.Time
	LastError       string
	IsHealthy       bool
}

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementSuccessfulTranslations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulTranslations++
}

func (m *Metrics) IncrementFailedTranslations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedTranslations++
}

func (m *Metrics) RecordRefresh(articles int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RefreshCycles++
	m.ArticlesAggregated += int64(articles)
	m.LastRefreshDuration = duration
	m.TotalRefreshDuration += duration
	m.AverageRefreshDuration = m.TotalRefreshDuration / time.Duration(m.RefreshCycles)
	m.LastRefreshTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":        m.ArticlesFetched,
		"articles_aggregated":     m.ArticlesAggregated,
		"source_failures":         m.SourceFailures,
		"duplicates_filtered":     m.DuplicatesFiltered,
		"successful_translations": m.SuccessfulTranslations,
		"failed_translations":     m.FailedTranslations,
		"refresh_cycles":          m.RefreshCycles,
		"last_refresh_ms":         m.LastRefreshDuration.Milliseconds(),
		"average_refresh_ms":      m.AverageRefreshDuration.Milliseconds(),
		"last_refresh_time":       m.LastRefreshTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
