package http

import (
	"todos/internal/adapter/database"
	"todos/internal/adapter/database/repository"
	"todos/internal/adapter/http/handler"
	"todos/internal/core/port"
	"todos/internal/core/service"
	"todos/pkg/config"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService

	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler
}

// NewContainer wires repository, service and handlers. probe may be nil.
func NewContainer(db *database.DB, probe port.Telemetry, logger *config.LokiLogger, version string) *Container {
	todoRepo := repository.NewTodoRepository(db, probe)
	todoSvc := service.NewTodoService(todoRepo, probe)

	return &Container{
		TodoRepo:    todoRepo,
		TodoService: todoSvc,

		TodoHandler:   handler.NewTodoHandler(todoSvc, logger),
		HealthHandler: handler.NewHealthHandler(db, version, logger),
	}
}
