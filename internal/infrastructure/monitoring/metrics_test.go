package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
)

func TestCollectorsAreIndependent(t *testing.T) {
	first := NewMetricsCollector(zap.NewNop())
	second := NewMetricsCollector(zap.NewNop())

	first.KitchenMutation("recipe", "add", nil)
	first.KitchenMutation("recipe", "add", errors.New("boom"))
	first.KitchenMutation("recipe", "add", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.kitchenMutationsTotal.WithLabelValues("recipe", "add", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(first.kitchenMutationsTotal.WithLabelValues("recipe", "add", OutcomeFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.kitchenMutationsTotal.WithLabelValues("recipe", "add", OutcomeSuccess)))
}

func TestHandlerExposesRequestMetrics(t *testing.T) {
	metrics := NewMetricsCollector(zap.NewNop())
	metrics.ObserveRequest(http.MethodGet, "/admin/recipes", http.StatusOK, 12*time.Millisecond, 512)
	metrics.LoginAttempt(nil)
	metrics.ToastQueued("success")
	metrics.RateLimited()

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `homemadefood_http_requests_total{method="GET",path="/admin/recipes",status_code="200"} 1`))
	assert.Contains(t, body, `homemadefood_login_attempts_total{outcome="success"} 1`)
	assert.Contains(t, body, `homemadefood_toasts_total{type="success"} 1`)
	assert.Contains(t, body, "homemadefood_rate_limited_requests_total 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestDisabledTracingUsesNoopTracer(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "HomeMadeFood"}}

	tracing, err := NewTracingProvider(cfg, zap.NewNop())
	require.NoError(t, err)

	_, span := tracing.Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, tracing.Shutdown(context.Background()))
}
