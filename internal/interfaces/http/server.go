// Package http provides the HTTP adapter over the repositories and the
// reporting engine. Handlers translate requests into repository calls and
// engine folds; they hold no state between requests.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/auth"
	"github.com/bizhub/backoffice/internal/export"
	"github.com/bizhub/backoffice/internal/repository"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP adapter
type Server struct {
	config       ServerConfig
	httpServer   *http.Server
	router       *gin.Engine
	authService  *auth.Service
	users        *repository.UserRepository
	jobs         *repository.JobRepository
	expenditures *repository.ExpenditureRepository
	excelWriter  *export.ExcelWriter
	pdfWriter    *export.PDFWriter
	logger       *zap.Logger

	// now supplies the reference instant for every window resolution,
	// aggregation and trend build, so computations stay deterministic
	// under test.
	now func() time.Time
}

// NewServer creates a new HTTP server over the given collaborators
func NewServer(
	config ServerConfig,
	authService *auth.Service,
	users *repository.UserRepository,
	jobs *repository.JobRepository,
	expenditures *repository.ExpenditureRepository,
	excelWriter *export.ExcelWriter,
	pdfWriter *export.PDFWriter,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:       config,
		router:       gin.New(),
		authService:  authService,
		users:        users,
		jobs:         jobs,
		expenditures: expenditures,
		excelWriter:  excelWriter,
		pdfWriter:    pdfWriter,
		logger:       logger,
		now:          time.Now,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

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
			zap.String("latency", time.Since(start).String()),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealthCheck)

	api := s.router.Group("/api")
	api.POST("/login", s.handleLogin)

	authed := api.Group("")
	authed.Use(s.authRequired())
	{
		authed.POST("/logout", s.handleLogout)
		authed.POST("/change_password", s.handleChangePassword)

		authed.GET("/dashboard", s.handleDashboard)

		authed.GET("/jobs", s.handleListJobs)
		authed.POST("/jobs", s.handleCreateJob)
		authed.GET("/jobs/:id", s.handleGetJob)

		authed.GET("/expenditures", s.handleListExpenditures)
		authed.POST("/expenditures", s.handleCreateExpenditure)
		authed.GET("/expenditures/:id", s.handleGetExpenditure)

		authed.GET("/export/jobs", s.handleExportJobs)
		authed.GET("/export/expenditures", s.handleExportExpenditures)
	}

	admin := authed.Group("")
	admin.Use(s.adminRequired())
	{
		admin.GET("/users", s.handleListUsers)
		admin.POST("/users", s.handleCreateUser)
		admin.PUT("/users/:id/role", s.handleUpdateUserRole)
		admin.DELETE("/users/:id", s.handleDeleteUser)

		admin.PUT("/jobs/:id", s.handleUpdateJob)
		admin.DELETE("/jobs/:id", s.handleDeleteJob)

		admin.PUT("/expenditures/:id", s.handleUpdateExpenditure)
		admin.DELETE("/expenditures/:id", s.handleDeleteExpenditure)
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server starting", zap.String("addr", addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying router for tests
func (s *Server) Router() http.Handler {
	return s.router
}
