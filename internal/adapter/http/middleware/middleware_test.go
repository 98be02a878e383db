package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"todos/pkg/config"
	"todos/pkg/tracing"
)

func newTestRouter(cfg *config.Config) (*gin.Engine, *tracing.AppMetrics) {
	gin.SetMode(gin.TestMode)

	metrics := tracing.NewAppMetrics(prometheus.NewRegistry())

	router := gin.New()
	SetupGinMiddlewareWithConfig(router, "todos-test", metrics, config.NewNopLogger(), cfg)

	router.GET("/api/todos/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "request_id": GetRequestID(c)})
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	return router, metrics
}

func TestRequestID_Generated(t *testing.T) {
	RegisterTestingT(t)

	router, _ := newTestRouter(config.GetDefaultConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/todos/1", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get(RequestIDHeader)).To(HaveLen(36))
	Expect(w.Body.String()).To(ContainSubstring(w.Header().Get(RequestIDHeader)))
}

func TestRequestID_Propagated(t *testing.T) {
	RegisterTestingT(t)

	router, _ := newTestRouter(config.GetDefaultConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/todos/1", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	router.ServeHTTP(w, req)

	Expect(w.Header().Get(RequestIDHeader)).To(Equal("req-123"))
}

func TestMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	RegisterTestingT(t)

	router, metrics := newTestRouter(config.GetDefaultConfig())

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/todos/"+id, nil)
		router.ServeHTTP(w, req)
	}

	Expect(testutil.ToFloat64(metrics.RequestTotal().WithLabelValues("GET", "/api/todos/:id", "200"))).To(Equal(2.0))
}

func TestRecovery_ReturnsInternalServerError(t *testing.T) {
	RegisterTestingT(t)

	router, _ := newTestRouter(config.GetDefaultConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusInternalServerError))
}

func TestCORSMiddleware(t *testing.T) {
	RegisterTestingT(t)

	cfg := config.GetDefaultConfig()
	cfg.Server.CORSOrigins = []string{"http://app.test"}
	router, _ := newTestRouter(cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/api/todos/1", nil)
	req.Header.Set("Origin", "http://app.test")
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusNoContent))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://app.test"))
	Expect(w.Header().Get("X-RateLimit-Limit")).To(BeEmpty())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/todos/1", nil)
	req.Header.Set("Origin", "http://evil.test")
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
}
