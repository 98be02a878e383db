package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"todos/pkg/config"
	"todos/pkg/tracing"
)

// SetupGinMiddlewareWithConfig installs the shared middleware chain. Order
// matters: CORS runs before the rate limiter so preflights are never counted.
func SetupGinMiddlewareWithConfig(router *gin.Engine, serviceName string, metrics *tracing.AppMetrics, logger *config.LokiLogger, cfg *config.Config) {
	httpsEnforcer := config.NewHTTPSEnforcer(cfg.Server, logger.Zap())
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(serviceName))
	router.Use(RequestID())
	router.Use(LoggingMiddleware(logger))
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(cfg.Server.CORSOrigins))

	if cfg.RateLimit.Enabled {
		rateLimiter := config.NewRateLimiter(cfg.RateLimit, logger.Zap(), metrics)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	router.Use(MetricsMiddleware(metrics))
}
