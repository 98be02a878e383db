package config

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"todos/pkg/tracing"
)

// RateLimitEndpointConfig configuration for rate limiting per endpoint
type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

// RateLimiter counts requests per route and client in fixed windows.
type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]RateLimitEndpointConfig
	logger  *zap.Logger
	metrics *tracing.AppMetrics
	mutex   sync.Mutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter applies cfg to every route. Writes get a tighter budget.
func NewRateLimiter(cfg RateLimitConfig, logger *zap.Logger, metrics *tracing.AppMetrics) *RateLimiter {
	c := cache.New(5*time.Minute, 10*time.Minute)

	writeRequests := cfg.Requests / 3
	if writeRequests < 1 {
		writeRequests = 1
	}

	configs := map[string]RateLimitEndpointConfig{
		"POST /api/todos": {
			Requests: writeRequests,
			Window:   cfg.Window,
			KeyFunc:  GetClientIP,
		},
		"DELETE /api/todos/:id": {
			Requests: writeRequests,
			Window:   cfg.Window,
			KeyFunc:  GetClientIP,
		},
		"default": {
			Requests: cfg.Requests,
			Window:   cfg.Window,
			KeyFunc:  GetClientIP,
		},
	}

	return &RateLimiter{
		cache:   c,
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// route pattern keeps /api/todos/1 and /api/todos/2 in one bucket
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path
		config := rl.endpointConfig(methodPath)

		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, config.KeyFunc(c))

		allowed, remaining, resetTime := rl.checkRateLimit(key, config)

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, "ip")
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, "ip")
		}

		c.Next()
	}
}

func (rl *RateLimiter) endpointConfig(methodPath string) RateLimitEndpointConfig {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if config, exists := rl.config[methodPath]; exists {
		return config
	}

	return rl.config["default"]
}

func (rl *RateLimiter) checkRateLimit(key string, config RateLimitEndpointConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if item, found := rl.cache.Get(key); found {
		entry := item.(RateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= config.Requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, time.Until(entry.ResetTime))

			return true, config.Requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(config.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, config.Window)

	return true, config.Requests - 1, resetTime
}

// SetConfig overrides the limits of one "METHOD /route" key, or "default".
func (rl *RateLimiter) SetConfig(methodPath string, config RateLimitEndpointConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if config.KeyFunc == nil {
		config.KeyFunc = GetClientIP
	}

	rl.config[methodPath] = config
}

// GetClientIP extrai IP do cliente considerando headers de proxy
func GetClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	ip := c.ClientIP()
	if ip == "" {
		return "unknown"
	}

	return ip
}
