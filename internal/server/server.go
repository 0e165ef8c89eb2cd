// Package server provides the HTTP API for the worklog search engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/championcp/worklog-search/internal/config"
	"github.com/championcp/worklog-search/internal/search"
	"github.com/championcp/worklog-search/internal/storage"
)

// Server is the HTTP server for the search API.
type Server struct {
	engine  *search.Engine
	storage storage.Store
	logger  *zap.Logger
	server  *http.Server

	mu  sync.RWMutex
	cfg *config.Config
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	store storage.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:  engine,
		storage: store,
		cfg:     cfg,
		logger:  logger,
	}
}

// ApplyConfig swaps in a freshly loaded config. Called by the config watcher;
// only tunables read per request (limits, retention) take effect without a
// restart.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.logger.Info("server config applied",
		zap.Int("default_limit", cfg.Search.DefaultLimit),
		zap.Int("max_limit", cfg.Search.MaxLimit),
		zap.Int("retention_days", cfg.History.RetentionDays),
	)
}

func (s *Server) config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleGlobalSearch)
	r.Post("/api/v1/search/advanced", s.handleAdvancedSearch)
	r.Get("/api/v1/search/suggestions", s.handleSuggestions)
	r.Get("/api/v1/search/history", s.handleHistory)
	r.Delete("/api/v1/search/history", s.handleHistoryCleanup)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	cfg := s.config()
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// requestLogger tags each request with an id and logs it on completion.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}
