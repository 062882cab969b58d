package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-chatbot/backend/config"
	"github.com/pageza/recipe-chatbot/backend/internal/api"
	"github.com/pageza/recipe-chatbot/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New creates a new server instance with the middleware chain and all routes registered
func New(cfg config.ServerConfig, db *gorm.DB, svc api.Services, log *zap.Logger) *Server {
	router := gin.New()
	router.Use(
		requestid.New(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.Metrics(),
		middleware.CORS(cfg.AllowedOrigins),
	)
	if cfg.MaxUploadBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.MaxUploadBytes, log))
	}

	api.RegisterRoutes(router, db, svc, log)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Address(),
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
		},
		logger: log,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.http.Shutdown(ctx)
}
