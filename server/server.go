// Package server exposes the query engine and course catalog over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/edudesk/coursechat"
	"github.com/edudesk/coursechat/engine"
)

// Server serves the chat API.
type Server struct {
	engine    *engine.Engine
	sessions  *coursechat.SessionStore
	retriever coursechat.Retriever
	logger    *slog.Logger
	srv       *http.Server
}

// New creates a new Server.
func New(eng *engine.Engine, sessions *coursechat.SessionStore, retriever coursechat.Retriever, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:    eng,
		sessions:  sessions,
		retriever: retriever,
		logger:    logger,
	}
}

// Handler returns the routed handler, wrapped in CORS. Exposed separately
// from Start so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/courses", s.handleCourses)
	mux.HandleFunc("POST /api/new-session", s.handleNewSession)
	mux.HandleFunc("POST /api/reset-session", s.handleResetSession)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	return s.corsMiddleware(mux)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("starting API server", "addr", addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
