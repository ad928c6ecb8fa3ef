package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/weighttrend/internal/chart"
	"github.com/2beens/weighttrend/internal/config"
	"github.com/2beens/weighttrend/internal/telemetry/metrics"
	"github.com/2beens/weighttrend/internal/weighttrend"
	"github.com/2beens/weighttrend/internal/weightlog"

	"github.com/go-redis/redis_rate/v9"
	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryHistory struct {
	entries map[string][]weighttrend.WeightLogEntry
}

func (m *memoryHistory) ListEntries(_ context.Context, userID string) ([]weighttrend.WeightLogEntry, error) {
	return m.entries[userID], nil
}

func (m *memoryHistory) GetProfile(_ context.Context, _ string) (*weightlog.Profile, error) {
	return nil, weightlog.ErrProfileNotFound
}

type testRateLimiter struct {
	allowed int
}

func (l *testRateLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	if l.allowed <= 0 {
		return &redis_rate.Result{Allowed: 0, RetryAfter: time.Second}, nil
	}
	l.allowed--
	return &redis_rate.Result{Allowed: 1}, nil
}

func newTestServer(t *testing.T, allowed int) (*Server, redismock.ClientMock) {
	t.Helper()

	rdb, redisMock := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	now := time.Now()
	history := &memoryHistory{entries: map[string][]weighttrend.WeightLogEntry{
		"u1": {
			{ID: "1", Date: now.AddDate(0, 0, -3), WeightKg: 90},
			{ID: "2", Date: now.AddDate(0, 0, -2), WeightKg: 89.4},
			{ID: "3", Date: now.AddDate(0, 0, -1), WeightKg: 0},
		},
	}}

	metricsManager, reg := metrics.NewTestManagerAndRegistry()
	return &Server{
		config: &config.Config{
			DefaultWindow:         "1M",
			DefaultViewport:       weighttrend.Viewport{Width: 360, Height: 220, Padding: 20},
			MaxViewportSidePixels: 4096,
			ChartRateLimitPerMin:  100,
		},
		redisClient:    rdb,
		rateLimiter:    &testRateLimiter{allowed: allowed},
		chartService:   chart.NewService(history, history, 1, time.Minute, metricsManager),
		metricsManager: metricsManager,
		promRegistry:   reg,
		otelShutdown:   func() {},
	}, redisMock
}

func TestServer_Router(t *testing.T) {
	s, redisMock := newTestServer(t, 10)
	router, err := s.routerSetup()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/weight/u1/chart", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var model weighttrend.ChartModel
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &model))
	assert.Equal(t, weighttrend.TimeWindowMonth, model.Window)
	assert.Len(t, model.Series, 2)
	assert.Equal(t, 1, model.DroppedEntries)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metricsManager.CounterInvalidEntriesDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metricsManager.CounterRequests.WithLabelValues("GET", "200")))

	redisMock.ExpectPing().SetVal("PONG")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/no/such/path", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_Router_RateLimited(t *testing.T) {
	s, _ := newTestServer(t, 1)
	router, err := s.routerSetup()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/weight/windows", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/weight/windows", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metricsManager.CounterRateLimitedRequests))
}

func TestServer_RouterSetup_BadDefaultWindow(t *testing.T) {
	s, _ := newTestServer(t, 1)
	s.config.DefaultWindow = "fortnight"
	_, err := s.routerSetup()
	assert.ErrorIs(t, err, weighttrend.ErrUnknownTimeWindow)
}

func TestServer_ConnStateMetrics(t *testing.T) {
	s, _ := newTestServer(t, 1)
	s.connStateMetrics(nil, http.StateNew)
	s.connStateMetrics(nil, http.StateNew)
	s.connStateMetrics(nil, http.StateClosed)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metricsManager.GaugeRequests))
}
