// Package stubapi is an in-memory stand-in for the claims backend. It
// serves the same routes and body shapes the real service does, seeded
// with a small demo tenant, so the CLI and the integration tests run
// without a deployment to point at.
package stubapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds the stub server's listen address, timeouts and seeding.
type Config struct {
	Host         string
	Port         int
	Seed         bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the address the CLI points at by default.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8787,
		Seed:         true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server hosts the stub API.
type Server struct {
	config     Config
	httpServer *http.Server
	router     *gin.Engine
	store      *memoryStore
	logger     *zap.Logger
}

// NewServer builds the stub server. The router is usable immediately via
// Router; Start binds it to the configured address.
func NewServer(config Config, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config: config,
		router: gin.New(),
		store:  newMemoryStore(),
		logger: logger,
	}
	if config.Seed {
		s.store.seed()
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.registerRoutes()

	return s
}

// loggingMiddleware logs one line per request after it completes.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// authMiddleware requires a bearer token on every route under it. Any
// non-empty token passes; identity is decoded later, per handler.
func authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		c.Next()
	}
}

func (s *Server) registerRoutes() {
	h := &handlers{store: s.store, logger: s.logger}

	s.router.GET("/health", h.health)

	authed := s.router.Group("/")
	authed.Use(authMiddleware())

	authed.GET("/custom-claims/", h.listClaims)
	authed.POST("/custom-claims/", h.createClaim)
	authed.GET("/custom-claims/:id", h.getClaim)
	authed.PUT("/custom-claims/:id", h.updateClaim)
	authed.DELETE("/custom-claims/:id", h.deleteClaim)
	authed.POST("/custom-claims/:id/transitions", h.transitionClaim)

	authed.GET("/allowances/", h.listAllowances)
	authed.POST("/allowances/", h.createAllowance)
	authed.GET("/allowances/:id", h.getAllowance)
	authed.PUT("/allowances/:id", h.updateAllowance)
	authed.DELETE("/allowances/:id", h.deleteAllowance)
	authed.POST("/allowances/:id/transitions", h.transitionAllowance)

	authed.GET("/policies/", h.listPolicies)
	// POST /policies/upload goes through the :id wildcard because the
	// router rejects a static segment registered beside it.
	authed.POST("/policies/:id", h.postPolicy)
	authed.POST("/policies/:id/approve", h.approvePolicy)

	authed.GET("/departments", h.listDepartments)
	authed.POST("/departments", h.createDepartment)
	authed.PUT("/departments/:id", h.updateDepartment)
	authed.DELETE("/departments/:id", h.deleteDepartment)

	authed.GET("/ibus/", h.listIBUs)
	authed.POST("/ibus/", h.createIBU)
	authed.PUT("/ibus/:id", h.updateIBU)
	authed.DELETE("/ibus/:id", h.deleteIBU)

	authed.GET("/projects/", h.listProjects)
	authed.GET("/employees/", h.listEmployees)
}

// Start binds the server and serves until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting stub API server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Stub API server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("Stub API server error", zap.Error(err))
		return err
	}
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Stub API server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("Stub API server stopped")
	return nil
}

// Router exposes the gin engine so tests can serve it over httptest.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
