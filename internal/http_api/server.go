package http_api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/core-coin/walletsync/internal/models"
	"github.com/core-coin/walletsync/pkg/logger"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// HTTPServer is the HTTP server struct that will serve the API
type HTTPServer struct {
	// logger is the logger instance
	logger *logger.Logger

	// router is the HTTP router
	router *gin.Engine

	// server is the underlying HTTP server, built once in NewHTTPServer
	server *http.Server

	// syncer provisions wallets
	syncer models.WalletSyncer
}

func corsConfig(allowedOrigins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"}
	config.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
		config.AllowCredentials = true
	}
	return config
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(syncer models.WalletSyncer, port int, allowedOrigins []string, logger *logger.Logger) *HTTPServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(corsConfig(allowedOrigins)))

	server := &HTTPServer{
		router: router,
		syncer: syncer,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("0.0.0.0:%v", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Define routes
	server.routes()

	return server
}

var _ models.APIServer = (*HTTPServer)(nil)

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *HTTPServer) Start() {
	s.logger.Infow("Starting HTTP server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Fatal("Failed to start the HTTP server: ", err)
	}
}

// Shutdown gracefully shuts down the HTTP server
// It is safe to call before or concurrently with Start; a later Start returns immediately.
func (s *HTTPServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server shut down successfully")
	return nil
}

// requestLogger logs each request through the application logger instead of gin's default writer.
func requestLogger(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugw("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
