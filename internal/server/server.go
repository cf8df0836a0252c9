package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/docsearch/internal/retrieval"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowAll       bool  // allow all CORS origins (dev mode)
	MaxUploadBytes int64 // multipart body cap, 0 for the default
	// IngestTimeout bounds an upload's indexing once detached from the request.
	IngestTimeout time.Duration
	// RequestTimeout bounds every route except uploads. Zero means 60s.
	RequestTimeout time.Duration
}

const (
	defaultRequestTimeout = 60 * time.Second
	defaultWriteTimeout   = 120 * time.Second
	writeTimeoutMargin    = 30 * time.Second
)

// writeTimeout leaves room for an upload to finish ingesting and still
// write its response. With no ingest bound there is no write deadline.
func (c Config) writeTimeout() time.Duration {
	if c.IngestTimeout <= 0 {
		return 0
	}
	if d := c.IngestTimeout + writeTimeoutMargin; d > defaultWriteTimeout {
		return d
	}
	return defaultWriteTimeout
}

// Server is the HTTP front end of the retrieval pipeline.
type Server struct {
	cfg        Config
	pipeline   *retrieval.Pipeline
	router     chi.Router
	httpServer *http.Server
}

// New creates a server exposing p.
func New(cfg Config, p *retrieval.Pipeline) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: p,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestTimeout(s.cfg.RequestTimeout))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealth)

	retrieval.RegisterRoutes(r, s.pipeline, retrieval.RouteOptions{
		MaxUploadBytes: s.cfg.MaxUploadBytes,
		IngestTimeout:  s.cfg.IngestTimeout,
	})

	return r
}

// requestTimeout applies middleware.Timeout to all routes but POST /upload,
// which is bounded by the ingest timeout instead.
func requestTimeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		d = defaultRequestTimeout
	}
	timeout := middleware.Timeout(d)
	return func(next http.Handler) http.Handler {
		limited := timeout(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/upload" {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status": "ok",
		"mode":   s.pipeline.Mode(),
	}
	status := http.StatusOK
	if n, err := s.pipeline.Count(r.Context()); err != nil {
		body["status"] = "degraded"
		body["error"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		body["documents"] = n
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Pipeline returns the retrieval pipeline served by s.
func (s *Server) Pipeline() *retrieval.Pipeline { return s.pipeline }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.writeTimeout(),
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("docsearch server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
