package healthcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func fixed(status Status, message string) CheckerFunc {
	return func(context.Context) Check {
		return Check{Status: status, Message: message, LastChecked: time.Now()}
	}
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		checkers map[string]Checker
		want     Status
	}{
		{"no checkers", nil, StatusHealthy},
		{"all healthy", map[string]Checker{"a": fixed(StatusHealthy, ""), "b": fixed(StatusHealthy, "")}, StatusHealthy},
		{"one degraded", map[string]Checker{"a": fixed(StatusHealthy, ""), "b": fixed(StatusDegraded, "slow")}, StatusDegraded},
		{"unhealthy wins", map[string]Checker{"a": fixed(StatusDegraded, ""), "b": fixed(StatusUnhealthy, "down")}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New("test", zap.NewNop())
			for name, checker := range tt.checkers {
				h.Register(name, checker)
			}
			response := h.Check(context.Background())
			assert.Equal(t, tt.want, response.Status)
			assert.Len(t, response.Checks, len(tt.checkers))
		})
	}
}

func TestChecksAreNamedAndSorted(t *testing.T) {
	h := New("test", zap.NewNop())
	h.Register("redis", fixed(StatusHealthy, ""))
	h.Register("database", fixed(StatusHealthy, ""))

	response := h.Check(context.Background())
	require.Len(t, response.Checks, 2)
	assert.Equal(t, "database", response.Checks[0].Name)
	assert.Equal(t, "redis", response.Checks[1].Name)
}

func TestResponsesAreCached(t *testing.T) {
	var calls atomic.Int32
	h := New("test", zap.NewNop())
	h.Register("counter", CheckerFunc(func(context.Context) Check {
		calls.Add(1)
		return Check{Status: StatusHealthy}
	}))

	h.Check(context.Background())
	h.Check(context.Background())
	assert.Equal(t, int32(1), calls.Load())

	h.SetCacheTTL(0)
	h.Check(context.Background())
	assert.Equal(t, int32(2), calls.Load())
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New("1.2.3", zap.NewNop())
	h.SetCacheTTL(0)
	h.Register("store", fixed(StatusUnhealthy, "connection refused"))

	router := gin.New()
	router.GET("/health", h.Handler())
	router.GET("/health/live", h.LivenessHandler())
	router.GET("/health/ready", h.ReadinessHandler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Contains(t, body, "total_duration_ms")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
}

func TestDatabaseChecker(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	check := NewDatabaseChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusHealthy, check.Status)
	assert.Contains(t, check.Metadata, "open_conns")

	require.NoError(t, sqlDB.Close())
	check = NewDatabaseChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.NotEmpty(t, check.Message)
}

func TestCheckerSeesDeadline(t *testing.T) {
	h := New("test", zap.NewNop())
	h.timeout = 10 * time.Millisecond
	h.Register("slow", CheckerFunc(func(ctx context.Context) Check {
		<-ctx.Done()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Check{Status: StatusUnhealthy, Message: "timed out"}
		}
		return Check{Status: StatusHealthy}
	}))

	response := h.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, response.Status)
	assert.Equal(t, "timed out", response.Checks[0].Message)
}
