package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/habarihub/habarihub/internal/feed"
)

type pageData struct {
	Articles    []feed.Article
	GeneratedAt time.Time
}

// handleIndex renders the aggregated list as HTML. On a pipeline failure the
// response is a 500 but still carries whatever articles (possibly the
// fallback set) are available, so the page is never blank.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	articles, err := s.cache.GetOrRefresh(r.Context(), s.refresh)
	if err != nil {
		slog.Error("refresh failed serving index", "err", err)
		if len(articles) == 0 {
			http.Error(w, "Samahani, habari hazipatikani kwa sasa.", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, pageData{Articles: articles, GeneratedAt: time.Now()}); err != nil {
		slog.Error("template render failed", "err", err)
	}
}

// handleArticles mirrors handleIndex's surfacing policy: a failed refresh is
// a 500, but whatever list is still available rides along in the body.
func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.cache.GetOrRefresh(r.Context(), s.refresh)
	status := http.StatusOK
	if err != nil {
		slog.Error("refresh failed serving articles", "err", err)
		if len(articles) == 0 {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error": "habari hazipatikani kwa sasa",
			})
			return
		}
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]interface{}{
		"count":    len(articles),
		"articles": articles,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if !s.metrics.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":          status,
		"cached_articles": s.cache.Len(),
		"metrics":         s.metrics.GetStats(),
		"translation":     s.budget.GetStats(),
	}
	if age, ok := s.cache.Age(); ok {
		response["cache_age_seconds"] = int(age.Seconds())
	} else {
		response["cache_age_seconds"] = nil
	}

	writeJSON(w, code, response)
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.cache.Invalidate()
	slog.Info("feed cache invalidated via /clear-cache")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "cache cleared",
	})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode JSON response", "err", err)
	}
}
