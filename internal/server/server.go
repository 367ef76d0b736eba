// Package server provides the background daemon's HTTP API: the relay endpoint
// page-side clients post to, snippet and configuration management, and status.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/snippetsaver/internal/config"
	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/relay"
	"github.com/hyperjump/snippetsaver/internal/search"
	"github.com/hyperjump/snippetsaver/internal/snippet"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CredentialStore reads and writes the Notion credentials.
type CredentialStore interface {
	Load(ctx context.Context) (models.NotionConfig, error)
	Save(ctx context.Context, cfg models.NotionConfig) error
}

// ConnectionTester checks Notion credentials against the remote API.
type ConnectionTester interface {
	TestConnection(ctx context.Context, cfg models.NotionConfig) error
}

// Server is the HTTP server for the snippetsaver daemon.
type Server struct {
	dispatcher  *relay.Dispatcher
	snippets    snippet.Repository
	credentials CredentialStore
	notion      ConnectionTester
	engine      *search.Engine
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	dispatcher *relay.Dispatcher,
	snippets snippet.Repository,
	credentials CredentialStore,
	notion ConnectionTester,
	engine *search.Engine,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dispatcher:  dispatcher,
		snippets:    snippets,
		credentials: credentials,
		notion:      notion,
		engine:      engine,
		config:      cfg,
		logger:      logger,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post(relay.RelayPath, s.handleRelay)
	r.Route("/api/v1/snippets", func(r chi.Router) {
		r.Get("/", s.handleListSnippets)
		r.Get("/{id}", s.handleGetSnippet)
		r.Delete("/{id}", s.handleDeleteSnippet)
	})
	r.Route("/api/v1/config/notion", func(r chi.Router) {
		r.Get("/", s.handleGetNotionConfig)
		r.Put("/", s.handlePutNotionConfig)
		r.Post("/test", s.handleTestNotionConfig)
	})
	r.Get("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/context-menu", s.handleContextMenu)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
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
