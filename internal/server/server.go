// Package server is the HTTP surface: the rendered page, the JSON API, the
// health endpoint and cache invalidation.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/habarihub/habarihub/internal/feedcache"
	"github.com/habarihub/habarihub/internal/metrics"
	"github.com/habarihub/habarihub/internal/ratelimit"
)

//go:embed templates/index.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

type Server struct {
	router  *mux.Router
	cache   *feedcache.FeedCache
	refresh feedcache.RefreshFunc
	metrics *metrics.Metrics
	budget  *ratelimit.TranslationBudget
	tmpl    *template.Template
	port    string
}

func New(cache *feedcache.FeedCache, refresh feedcache.RefreshFunc, m *metrics.Metrics, budget *ratelimit.TranslationBudget, port string) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:  mux.NewRouter(),
		cache:   cache,
		refresh: refresh,
		metrics: m,
		budget:  budget,
		tmpl:    tmpl,
		port:    port,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/api/articles", s.handleArticles).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/clear-cache", s.handleClearCache).Methods(http.MethodPost)
	s.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	s.router.Use(requestLogger)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("✅ HabariHub listening", "port", s.port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(started))
	})
}
