package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string
	adminToken string

	// Services
	retrievalService    driving.RetrievalService
	ingestionService    driving.IngestionService
	docService          driving.DocumentService
	conversationService driving.ConversationService
	tokenParser         driven.TokenParser

	// Infrastructure
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AdminToken     string   // enables /api/v1/admin/* when set
	AllowedOrigins []string // CORS; empty disables CORS headers
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// Deps are the services and health targets the server routes to.
// Conversations and Redis are optional.
type Deps struct {
	Retrieval     driving.RetrievalService
	Ingestion     driving.IngestionService
	Documents     driving.DocumentService
	Conversations driving.ConversationService
	Tokens        driven.TokenParser
	DB            Pinger
	Redis         Pinger
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Deps) *Server {
	s := &Server{
		router:              http.NewServeMux(),
		version:             cfg.Version,
		adminToken:          cfg.AdminToken,
		retrievalService:    deps.Retrieval,
		ingestionService:    deps.Ingestion,
		docService:          deps.Documents,
		conversationService: deps.Conversations,
		tokenParser:         deps.Tokens,
		db:                  deps.DB,
		redisClient:         deps.Redis,
	}

	s.setupRoutes()

	var h http.Handler = s.router
	if len(cfg.AllowedOrigins) > 0 {
		h = NewCORSMiddleware(cfg.AllowedOrigins).Handler(h)
	}
	h = NewLoggingMiddleware().Handler(h)
	h = NewRecoveryMiddleware().Handler(h)
	s.handler = otelhttp.NewHandler(h, "smartnotes-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.tokenParser)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(h)
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)

	// Retrieval
	s.router.Handle("POST /api/v1/retrieve", authed(s.handleRetrieve))

	// Documents
	s.router.Handle("POST /api/v1/documents", authed(s.handleIngest))
	s.router.Handle("GET /api/v1/documents", authed(s.handleListDocuments))
	s.router.Handle("GET /api/v1/documents/{id}", authed(s.handleGetDocument))
	s.router.Handle("GET /api/v1/documents/{id}/chunks", authed(s.handleGetDocumentChunks))
	s.router.Handle("DELETE /api/v1/documents/{id}", authed(s.handleDeleteDocument))

	// Conversation history
	if s.conversationService != nil {
		s.router.Handle("POST /api/v1/conversations/turns", authed(s.handleRecordTurn))
		s.router.Handle("GET /api/v1/conversations/turns", authed(s.handleRecentTurns))
	}

	// Operator endpoints
	if s.adminToken != "" {
		s.router.Handle("POST /api/v1/admin/backfill",
			RequireAdminToken(s.adminToken, http.HandlerFunc(s.handleBackfill)))
	}
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
