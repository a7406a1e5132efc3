package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habarihub/habarihub/internal/feed"
	"github.com/habarihub/habarihub/internal/feedcache"
	"github.com/habarihub/habarihub/internal/metrics"
	"github.com/habarihub/habarihub/internal/ratelimit"
)

func testArticles() []feed.Article {
	now := time.Now()
	return []feed.Article{
		{
			Title: "Government announces budget", Link: "https://example.com/budget",
			Summary: "A new budget.", PublishedAt: now, SourceName: "BBC World",
			Category: feed.CategoryInternational, ImageURL: feed.DefaultImageURL,
			NeedsTranslation: true, TitleTranslated: "Serikali yatangaza bajeti", SummaryTranslated: "Bajeti mpya.",
		},
		{
			Title: "Habari za leo", Link: "https://example.com/leo",
			Summary: "Muhtasari.", PublishedAt: now, SourceName: "Mwananchi",
			Category: feed.CategoryTanzania, ImageURL: feed.DefaultImageURL,
			NeedsTranslation: false, TitleTranslated: "Habari za leo", SummaryTranslated: "Muhtasari.",
		},
	}
}

type refreshStub struct {
	calls    int
	articles []feed.Article
	err      error
}

func (r *refreshStub) fn(ctx context.Context) ([]feed.Article, error) {
	r.calls++
	return r.articles, r.err
}

func newTestServer(t *testing.T, r *refreshStub) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	s, err := New(feedcache.New(10*time.Minute), r.fn, m, ratelimit.NewTranslationBudget(100), "8080")
	require.NoError(t, err)
	return s, m
}

func TestIndexRendersArticles(t *testing.T) {
	s, _ := newTestServer(t, &refreshStub{articles: testArticles()})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Serikali yatangaza bajeti")
	assert.Contains(t, body, "Habari za leo")
	// Translated articles also show their original headline.
	assert.Contains(t, body, "Government announces budget")
}

func TestIndexFailsWithSwahiliMessageWhenEmpty(t *testing.T) {
	s, _ := newTestServer(t, &refreshStub{err: errors.New("all sources down")})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Samahani")
}

func TestArticlesJSON(t *testing.T) {
	s, _ := newTestServer(t, &refreshStub{articles: testArticles()})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var payload struct {
		Count    int            `json:"count"`
		Articles []feed.Article `json:"articles"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, 2, payload.Count)
	require.Len(t, payload.Articles, 2)
	assert.Equal(t, "Serikali yatangaza bajeti", payload.Articles[0].TitleTranslated)
}

func TestArticlesErrorWhenNothingAvailable(t *testing.T) {
	s, _ := newTestServer(t, &refreshStub{err: errors.New("all sources down")})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "habari hazipatikani")
}

func TestArticlesKeepsStaleListOnFailedRefresh(t *testing.T) {
	r := &refreshStub{articles: testArticles()}
	s, _ := newTestServer(t, r)

	// Seed the cache, then make every later refresh fail.
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	r.err = errors.New("all sources down")
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/clear-cache", nil))

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "failed refresh surfaces as 500 even with content")

	var payload struct {
		Count    int            `json:"count"`
		Articles []feed.Article `json:"articles"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, 2, payload.Count, "the stale list still rides along in the body")
}

func TestArticlesServedFromCache(t *testing.T) {
	r := &refreshStub{articles: testArticles()}
	s, _ := newTestServer(t, r)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 1, r.calls, "repeat requests within the TTL must not rerun the pipeline")
}

func TestHealth(t *testing.T) {
	s, m := newTestServer(t, &refreshStub{articles: testArticles()})

	// Populate the cache first so cached_articles is meaningful.
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, "ok", payload["status"])
	assert.EqualValues(t, 2, payload["cached_articles"])
	assert.NotNil(t, payload["metrics"])
	assert.NotNil(t, payload["translation"])
	assert.NotNil(t, payload["cache_age_seconds"])

	m.SetError("refresh blew up")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestClearCache(t *testing.T) {
	r := &refreshStub{articles: testArticles()}
	s, _ := newTestServer(t, r)

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	require.Equal(t, 1, r.calls)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clear-cache", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cache cleared")

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	assert.Equal(t, 2, r.calls, "clearing the cache forces the next request to refresh")
}

func TestClearCacheRejectsGET(t *testing.T) {
	s, _ := newTestServer(t, &refreshStub{articles: testArticles()})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clear-cache", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthBeforeFirstRefresh(t *testing.T) {
	s, _ := newTestServer(t, &refreshStub{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Nil(t, payload["cache_age_seconds"])
	if !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
}
