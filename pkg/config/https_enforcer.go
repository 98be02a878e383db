package config

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPSEnforcer redireciona requisições HTTP para HTTPS
type HTTPSEnforcer struct {
	enabled bool
	logger  *zap.Logger
}

func NewHTTPSEnforcer(cfg ServerConfig, logger *zap.Logger) *HTTPSEnforcer {
	return &HTTPSEnforcer{
		enabled: cfg.EnforceHTTPS,
		logger:  logger,
	}
}

func (he *HTTPSEnforcer) HTTPSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !he.enabled || c.Request.TLS != nil {
			c.Next()
			return
		}

		// load balancer terminated TLS
		if c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Next()
			return
		}

		host := c.Request.Host
		if strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1") {
			c.Next()
			return
		}

		httpsURL := "https://" + host + c.Request.URL.RequestURI()

		he.logger.Info("Redirecting to HTTPS",
			zap.String("original_url", c.Request.URL.String()),
			zap.String("https_url", httpsURL))

		c.Redirect(http.StatusMovedPermanently, httpsURL)
		c.Abort()
	}
}

func (he *HTTPSEnforcer) IsEnabled() bool {
	return he.enabled
}
