package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	"github.com/homemadefood/backoffice/internal/infrastructure/monitoring"
)

func newTestMiddleware(t *testing.T, burst int) (*Middleware, *monitoring.MetricsCollector) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Name: "HomeMadeFood"},
		Monitoring: config.MonitoringConfig{
			HealthCheckPath: "/health",
			MetricsPath:     "/metrics",
		},
		RateLimit: config.RateLimitConfig{
			Enable:          true,
			RequestsPerMin:  1,
			BurstSize:       burst,
			CleanupInterval: time.Minute,
		},
	}
	tracing, err := monitoring.NewTracingProvider(cfg, zap.NewNop())
	require.NoError(t, err)
	metrics := monitoring.NewMetricsCollector(zap.NewNop())
	return New(cfg, zap.NewNop(), tracing, metrics), metrics
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	m, _ := newTestMiddleware(t, 10)
	router := gin.New()
	router.Use(m.RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = serve(router, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRateLimitIsPerClient(t *testing.T) {
	m, metrics := newTestMiddleware(t, 2)
	router := gin.New()
	router.Use(m.RateLimit())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":12345"
		return serve(router, req).Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2"))

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "homemadefood_rate_limited_requests_total 1")
}

func TestVisitorLimitersForgetIdleClients(t *testing.T) {
	limiters := newVisitorLimiters(1, 1, time.Minute)
	now := time.Now()
	limiters.now = func() time.Time { return now }

	limiters.get("10.0.0.1")
	now = now.Add(2 * time.Minute)
	limiters.get("10.0.0.2")

	assert.NotContains(t, limiters.visitors, "10.0.0.1")
	assert.Contains(t, limiters.visitors, "10.0.0.2")
}

func TestRecovery(t *testing.T) {
	m, _ := newTestMiddleware(t, 10)
	router := gin.New()
	router.Use(m.RequestID(), m.Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestSecurityHeaders(t *testing.T) {
	m, _ := newTestMiddleware(t, 10)
	router := gin.New()
	router.Use(m.Security())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

func TestSessionCookieIsIssuedOnce(t *testing.T) {
	m, _ := newTestMiddleware(t, 10)
	router := gin.New()
	router.Use(m.Session())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextSessionID)) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, cookies[0].Value, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = serve(router, req)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, cookies[0].Value, w.Body.String())
}

func TestCSRF(t *testing.T) {
	m, _ := newTestMiddleware(t, 10)
	router := gin.New()
	router.Use(m.CSRF())
	router.GET("/form", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextCSRFToken)) })
	router.POST("/form", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Result().Cookies()[0]
	token := w.Body.String()
	require.Equal(t, cookie.Value, token)

	post := func(value string, withCookie bool) int {
		form := url.Values{csrfFormField: {value}}
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if withCookie {
			req.AddCookie(cookie)
		}
		return serve(router, req).Code
	}

	assert.Equal(t, http.StatusNoContent, post(token, true))
	assert.Equal(t, http.StatusForbidden, post("forged", true))
	assert.Equal(t, http.StatusForbidden, post(token, false))
}

func TestMetricsUseRouteTemplate(t *testing.T) {
	m, metrics := newTestMiddleware(t, 10)
	router := gin.New()
	router.Use(m.Metrics(), m.Tracing())
	router.GET("/admin/recipes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, httptest.NewRequest(http.MethodGet, "/admin/recipes/0b1c", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `path="/admin/recipes/:id",status_code="200"`)
	assert.Contains(t, body, `path="unmatched",status_code="404"`)
}
