package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/infrastructure/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestHTTPMetrics_RecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zap.NewNop())

	r := gin.New()
	r.Use(HTTPMetrics(HTTPMetricsConfig{MeterProvider: mp, Enabled: true}))
	r.GET("/api/dashboard/aov", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"aov": "1.00"}) })

	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/dashboard/aov", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	metrics := collect(t, reader)
	require.Contains(t, metrics, "http_server_request_total")
	require.Contains(t, metrics, "http_server_request_duration_seconds")
	require.Contains(t, metrics, "http_server_response_size_bytes")

	sum, ok := metrics["http_server_request_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byRoute := map[string]int64{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
		byRoute[route.AsString()] += dp.Value
	}
	assert.Equal(t, int64(3), byRoute["/api/dashboard/aov"])
	assert.Equal(t, int64(1), byRoute["unmatched"])
}

func TestHTTPMetrics_DisabledIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetrics(HTTPMetricsConfig{Enabled: false}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
