// Package middleware provides HTTP middleware components
// following the Chain of Responsibility pattern
package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	"github.com/homemadefood/backoffice/internal/infrastructure/monitoring"
)

// Context keys set by the middleware chain
const (
	ContextRequestID = "request_id"
	ContextSessionID = "session_id"
	ContextCSRFToken = "csrf_token"
)

// SessionCookie identifies a browser for toast delivery
const SessionCookie = "hmf_session"

// Middleware provides all middleware functions
type Middleware struct {
	config   *config.Config
	logger   *zap.Logger
	tracer   trace.Tracer
	metrics  *monitoring.MetricsCollector
	limiters *visitorLimiters
}

// New creates a new middleware instance
func New(cfg *config.Config, logger *zap.Logger, tracing *monitoring.TracingProvider, metrics *monitoring.MetricsCollector) *Middleware {
	return &Middleware{
		config:  cfg,
		logger:  logger.Named("http"),
		tracer:  tracing.Tracer(),
		metrics: metrics,
		limiters: newVisitorLimiters(
			rate.Limit(float64(cfg.RateLimit.RequestsPerMin)/60),
			cfg.RateLimit.BurstSize,
			cfg.RateLimit.CleanupInterval,
		),
	}
}

// RequestID adds a unique request ID to the context
func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextRequestID, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// Logger provides structured logging for requests
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if path == m.config.Monitoring.HealthCheckPath || path == m.config.Monitoring.MetricsPath {
			return
		}

		statusCode := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(ContextRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Int("status", statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		if userID := c.GetString("user_id"); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		switch {
		case statusCode >= 500:
			m.logger.Error("Server error", append(fields, zap.String("error", errorMessage))...)
		case statusCode >= 400:
			m.logger.Warn("Client error", append(fields, zap.String("error", errorMessage))...)
		case statusCode >= 300:
			m.logger.Debug("Redirection", fields...)
		default:
			m.logger.Info("Request completed", fields...)
		}
	}
}

// Recovery recovers from panics and returns 500 error
func (m *Middleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				m.logger.Error("Panic recovered",
					zap.String("request_id", c.GetString(ContextRequestID)),
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
				)

				if strings.Contains(c.GetHeader("Accept"), "text/html") {
					c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8",
						[]byte("Internal server error. Request "+c.GetString(ContextRequestID)))
					c.Abort()
					return
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": c.GetString(ContextRequestID),
				})
			}
		}()

		c.Next()
	}
}

// Session makes sure every browser carries a session id cookie
func (m *Middleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || sessionID == "" {
			sessionID = randomToken()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sessionID, 0, "/", "", m.config.Auth.CookieSecure, true)
		}

		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}

// RateLimit throttles each client IP with its own token bucket
func (m *Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.config.RateLimit.Enable {
			c.Next()
			return
		}

		if !m.limiters.get(c.ClientIP()).Allow() {
			m.metrics.RateLimited()
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": "60",
			})
			return
		}

		c.Next()
	}
}

// Tracing adds distributed tracing
func (m *Middleware) Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := m.tracer.Start(
			c.Request.Context(),
			fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
				attribute.String("http.user_agent", c.Request.UserAgent()),
				attribute.String("request.id", c.GetString(ContextRequestID)),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.SetAttributes(
			attribute.Int("http.status_code", c.Writer.Status()),
			attribute.Int("http.response_size", c.Writer.Size()),
		)

		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last())
		}
		if c.Writer.Status() >= 500 {
			span.SetStatus(codes.Error, http.StatusText(c.Writer.Status()))
		}
	}
}

// Metrics records request count, latency and size per route
func (m *Middleware) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}

// Security adds security headers
func (m *Middleware) Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Header("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"frame-ancestors 'none'; "+
				"base-uri 'self'")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		// admin pages carry per-user data
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")

		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorLimiters struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newVisitorLimiters(limit rate.Limit, burst int, idle time.Duration) *visitorLimiters {
	if idle <= 0 {
		idle = time.Minute
	}
	return &visitorLimiters{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		idle:     idle,
		now:      time.Now,
	}
}

// get returns the limiter for ip, dropping visitors idle for longer than
// the cleanup interval at most once per interval.
func (v *visitorLimiters) get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if now.Sub(v.lastSweep) > v.idle {
		for key, vis := range v.visitors {
			if now.Sub(vis.lastSeen) > v.idle {
				delete(v.visitors, key)
			}
		}
		v.lastSweep = now
	}

	vis, ok := v.visitors[ip]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.visitors[ip] = vis
	}
	vis.lastSeen = now
	return vis.limiter
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}
