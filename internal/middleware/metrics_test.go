package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-timetable-api/internal/service"
)

func newMetricsRouter(metricsSvc *service.MetricsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(metricsSvc))
	r.GET("/teachers/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	return r
}

func scrape(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetricsMiddlewareObservesRouteTemplate(t *testing.T) {
	metricsSvc := service.NewMetricsService()
	r := newMetricsRouter(metricsSvc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teachers/7", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := scrape(t, r)
	// The series aggregates on the route template, not the concrete id.
	assert.Contains(t, body, `path="/teachers/:id"`)
	assert.NotContains(t, body, `path="/teachers/7"`)
}

func TestMetricsMiddlewareSkipsScrapeEndpoint(t *testing.T) {
	metricsSvc := service.NewMetricsService()
	r := newMetricsRouter(metricsSvc)

	scrape(t, r)
	body := scrape(t, r)
	assert.NotContains(t, body, `path="/metrics"`)
}

func TestMetricsMiddlewareNilServicePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
