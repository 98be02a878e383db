package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	. "todos/internal/adapter/http/helper"
	"todos/internal/core/model/request"
	"todos/internal/core/model/response"
	"todos/internal/core/port"
	"todos/pkg/config"
	. "todos/pkg/tracing"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *config.LokiLogger
}

func NewTodoHandler(todoService port.TodoService, logger *config.LokiLogger) *TodoHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &TodoHandler{
		svc:    todoService,
		Logger: logger,
	}
}

// GetAllTodos GET /api/todos
func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := t.startSpan(c, "GetAllTodos")
	defer span.End()

	todos, err := t.svc.GetAllTodos(ctx)
	if err != nil {
		AddSpanError(span, err)
		t.Logger.Logger.Ctx(ctx).Error("Failed to get todos", zap.Error(err))

		SendInternalError(c, "Error getting todos")
		return
	}

	span.SetAttributes(attribute.Int("todo.count", len(todos)))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	c.JSON(http.StatusOK, response.NewTodoListResponse(todos))
}

// GetTodoByID GET /api/todos/:id. An unknown id answers 200 with no body.
func (t *TodoHandler) GetTodoByID(c *gin.Context) {
	ctx, span := t.startSpan(c, "GetTodoByID")
	defer span.End()

	id, ok := parseID(c)
	if !ok {
		return
	}

	span.SetAttributes(attribute.Int64("todo.id", id))

	todo, err := t.svc.GetTodoByID(ctx, id)
	if err != nil {
		AddSpanError(span, err)
		t.Logger.Logger.Ctx(ctx).Error("Failed to get todo", zap.Error(err), zap.Int64("todo_id", id))

		SendInternalError(c, "Error getting todo")
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	if todo == nil {
		span.SetAttributes(attribute.Bool("todo.found", false))
		c.Status(http.StatusOK)
		return
	}

	c.JSON(http.StatusOK, response.NewTodoResponse(*todo))
}

// CreateTodo POST /api/todos. A body carrying an id overwrites that todo.
func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "CreateTodo")
	defer span.End()

	var req request.TodoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, "body", err.Error())
		return
	}

	todo, err := t.svc.CreateTodo(ctx, req.ToDomain())
	if err != nil {
		AddSpanError(span, err)
		t.Logger.Logger.Ctx(ctx).Error("Failed to create todo", zap.Error(err))

		SendInternalError(c, "Error creating todo")
		return
	}

	span.SetAttributes(attribute.Int64("todo.id", todo.ID))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

// DeleteTodoByID DELETE /api/todos/:id
func (t *TodoHandler) DeleteTodoByID(c *gin.Context) {
	ctx, span := t.startSpan(c, "DeleteTodoByID")
	defer span.End()

	id, ok := parseID(c)
	if !ok {
		return
	}

	span.SetAttributes(attribute.Int64("todo.id", id))

	if err := t.svc.DeleteTodoByID(ctx, id); err != nil {
		AddSpanError(span, err)
		t.Logger.Logger.Ctx(ctx).Error("Failed to delete todo", zap.Error(err), zap.Int64("todo_id", id))

		SendInternalError(c, "Error deleting todo")
		return
	}

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	c.Status(http.StatusOK)
}

func (t *TodoHandler) startSpan(c *gin.Context, operation string) (context.Context, trace.Span) {
	return CreateChildSpan(c.Request.Context(), "handler.todo."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		SendBadRequestError(c, "id", "id must be an integer")
		return 0, false
	}

	return id, true
}
