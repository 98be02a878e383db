package routes

import (
	"github.com/gin-gonic/gin"

	"todos/internal/adapter/http/handler"
	. "todos/internal/adapter/http/helper"
	"todos/internal/adapter/http/middleware"
	"todos/pkg/config"
	"todos/pkg/tracing"
)

type HandlersConfig struct {
	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *tracing.AppMetrics, logger *config.LokiLogger, cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.SetupGinMiddlewareWithConfig(router, cfg.App.Name, metrics, logger, cfg)

	registerRoutes(router, handlers)

	return router
}

// SetupRouterForTests skips telemetry, logging and rate limiting.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(gin.Recovery())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Health)
	}

	if handlers.TodoHandler != nil {
		api := router.Group("/api")
		{
			api.GET("/todos", handlers.TodoHandler.GetAllTodos)
			api.GET("/todos/:id", handlers.TodoHandler.GetTodoByID)
			api.POST("/todos", handlers.TodoHandler.CreateTodo)
			api.DELETE("/todos/:id", handlers.TodoHandler.DeleteTodoByID)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		SendNotFoundError(c, "route not found")
	})
}
