package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/celeaxy/tradepost/internal/cache"
	"github.com/celeaxy/tradepost/internal/config"
	"github.com/celeaxy/tradepost/internal/metrics"
	"github.com/celeaxy/tradepost/internal/store"
	"github.com/celeaxy/tradepost/internal/tracing"
)

// Server is the HTTP server for the tradepost API. It binds the chi router
// to the configured address and provides graceful shutdown support.
type Server struct {
	router    chi.Router
	store     *store.Store
	lists     *cache.ListCache
	collector *metrics.Collector
	httpSrv   *http.Server
}

// NewServer creates a new Server wired to the given store, list cache,
// metrics collector, and configuration. The store is an injected
// dependency so the handler surface can be exercised against any database
// file in tests.
func NewServer(st *store.Store, lists *cache.ListCache, collector *metrics.Collector, cfg *config.Config) *Server {
	s := &Server{
		store:     st,
		lists:     lists,
		collector: collector,
	}

	r := chi.NewRouter()

	// Standard chi middleware.
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Server.MaxBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.Server.MaxBodySize))
	}
	if cfg.Tracing.Enabled {
		r.Use(tracing.HTTPMiddleware)
	}
	r.Use(requestLogger(collector))
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Get("/metrics", metrics.PrometheusHandler(collector))

	// Per-resource API: the tenant key comes from the Authorization header.
	r.Group(func(r chi.Router) {
		r.Use(RequireTenant)

		r.Get("/items", s.handleListItems)
		r.Post("/item", s.handleUpsertItem)
		r.Put("/item/{id}", s.handleUpdateItem)
		r.Delete("/item/{id}", s.handleDeleteItem)

		r.Get("/stations", s.handleListStations)
		r.Post("/station", s.handleUpsertStation)
		r.Put("/station/{id}", s.handleUpdateStation)
		r.Delete("/station/{id}", s.handleDeleteStation)

		r.Get("/demands", s.handleListDemands)
		r.Post("/demand", s.handleUpsertDemand)
		r.Put("/demand", s.handleUpdateDemand)
		r.Delete("/demand", s.handleDeleteDemand)
	})

	// Legacy bulk shape: the tenant key arrives in the body or query.
	r.Post("/migrate", s.handleMigrate)

	s.router = r

	addr := fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return s
}

// Router returns the underlying chi.Router, useful for testing or additional
// route mounting by the caller.
func (s *Server) Router() chi.Router {
	return s.router
}

// Addr returns the address the server will listen on.
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Start begins listening for HTTP connections on the configured address.
// It blocks until the server is shut down or encounters a fatal error.
func (s *Server) Start() error {
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// StartTLS begins listening for HTTPS connections using the given certificate
// and key files. It blocks until the server is shut down or encounters a fatal error.
func (s *Server) StartTLS(certFile, keyFile string) error {
	if err := s.httpSrv.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server (TLS): %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests to
// complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
