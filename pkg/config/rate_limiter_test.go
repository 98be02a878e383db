package config

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"todos/pkg/tracing"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/api/todos", func(c *gin.Context) {
		c.JSON(200, []gin.H{})
	})
	router.POST("/api/todos", func(c *gin.Context) {
		c.JSON(200, gin.H{"id": 1})
	})
	router.DELETE("/api/todos/:id", func(c *gin.Context) {
		c.Status(200)
	})

	return router
}

func defaultLimits() RateLimitConfig {
	return RateLimitConfig{Enabled: true, Requests: 60, Window: time.Minute}
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(defaultLimits(), zap.NewNop(), nil)

	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.config).To(HaveKey("default"))
	Expect(rl.config["POST /api/todos"].Requests).To(Equal(20))
}

func TestRateLimitMiddleware_ExceedLimit(t *testing.T) {
	RegisterTestingT(t)

	metrics := tracing.NewAppMetrics(prometheus.NewRegistry())
	router := newLimitedRouter(NewRateLimiter(defaultLimits(), zap.NewNop(), metrics))

	for i := 0; i < 65; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/todos", nil)
		router.ServeHTTP(w, req)

		if i < 60 {
			Expect(w.Code).To(Equal(200))
			Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(59 - i)))
		} else {
			Expect(w.Code).To(Equal(429))
			Expect(w.Body.String()).To(ContainSubstring("Rate limit exceeded"))
		}
	}

	Expect(testutil.ToFloat64(metrics.RateLimitHits().WithLabelValues("/api/todos", "ip"))).To(Equal(5.0))
}

func TestRateLimitMiddleware_RouteBuckets(t *testing.T) {
	RegisterTestingT(t)

	router := newLimitedRouter(NewRateLimiter(defaultLimits(), zap.NewNop(), nil))

	// different ids share the DELETE bucket
	expectedRemaining := []int{19, 18, 17}

	for i, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/todos/"+id, nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(expectedRemaining[i])))
	}

	// POST has its own bucket
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/todos", strings.NewReader(`{"title":"x"}`))
	router.ServeHTTP(w, req)

	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("19"))
	Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("20"))
}

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(defaultLimits(), zap.NewNop(), nil)
	rl.SetConfig("default", RateLimitEndpointConfig{Requests: 1, Window: time.Minute})
	router := newLimitedRouter(rl)

	for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/todos", nil)
		req.Header.Set("X-Forwarded-For", ip+", 192.168.0.1")
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(429))
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(defaultLimits(), zap.NewNop(), nil)
	rl.SetConfig("default", RateLimitEndpointConfig{Requests: 2, Window: 100 * time.Millisecond})
	router := newLimitedRouter(rl)

	codes := func() int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/todos", nil)
		router.ServeHTTP(w, req)
		return w.Code
	}

	Expect(codes()).To(Equal(200))
	Expect(codes()).To(Equal(200))
	Expect(codes()).To(Equal(429))

	time.Sleep(150 * time.Millisecond)

	Expect(codes()).To(Equal(200))
}

func TestRateLimitMiddleware_Concurrent(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(defaultLimits(), zap.NewNop(), nil)
	rl.SetConfig("default", RateLimitEndpointConfig{Requests: 50, Window: time.Minute})
	router := newLimitedRouter(rl)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)

	for i := 0; i < 80; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/todos", nil)
			router.ServeHTTP(w, req)

			if w.Code == 200 {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	Expect(allowed).To(Equal(50))
}
