// Package server assembles the gin engine of the back office: middleware
// chain, health and metrics endpoints, account pages and the admin area
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	"github.com/homemadefood/backoffice/internal/infrastructure/http/handlers"
	"github.com/homemadefood/backoffice/internal/infrastructure/http/middleware"
	"github.com/homemadefood/backoffice/internal/infrastructure/monitoring"
	"github.com/homemadefood/backoffice/internal/infrastructure/security"
	"github.com/homemadefood/backoffice/pkg/healthcheck"
)

// AdminRole is required for every page below /admin
const AdminRole = "admin"

// RouteRegistrar is implemented by every controller
type RouteRegistrar interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine
	server *http.Server
}

// Routes are the controllers mounted by the server
type Routes struct {
	Account RouteRegistrar
	Admin   []RouteRegistrar
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	mw *middleware.Middleware,
	auth *security.Authenticator,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
	views *handlers.Views,
	routes Routes,
) (*Server, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register form validators: %w", err)
	}
	tmpl, err := handlers.ParseTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	router.Use(
		mw.RequestID(),
		mw.Recovery(),
		mw.Logger(),
		mw.Tracing(),
		mw.Metrics(),
		mw.Security(),
	)

	// probes and scrapes bypass rate limiting and sessions
	router.GET(cfg.Monitoring.HealthCheckPath, health.Handler())
	router.GET(cfg.Monitoring.HealthCheckPath+"/live", health.LivenessHandler())
	router.GET(cfg.Monitoring.HealthCheckPath+"/ready", health.ReadinessHandler())
	if cfg.Monitoring.EnableMetrics {
		router.GET(cfg.Monitoring.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	pages := router.Group("/", mw.RateLimit(), mw.Session(), mw.CSRF())
	pages.GET("", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin/daily-menus")
	})
	routes.Account.RegisterRoutes(pages)

	admin := pages.Group("/admin", auth.Authenticate(), auth.RequireRole(AdminRole))
	for _, controller := range routes.Admin {
		controller.RegisterRoutes(admin)
	}

	router.NoRoute(mw.Session(), views.NotFound)

	s := &Server{
		config: cfg,
		logger: logger.Named("http-server"),
		router: router,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		},
	}
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
