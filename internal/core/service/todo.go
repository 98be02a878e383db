package service

import (
	"context"
	"time"

	"todos/internal/core/domain"
	"todos/internal/core/port"
	tel "todos/internal/core/telemetry"
)

const serviceName = "todo"

// TodoService delegates every call to the repository unchanged.
type TodoService struct {
	repo      port.TodoRepository
	telemetry port.Telemetry
}

func NewTodoService(repo port.TodoRepository, telemetry port.Telemetry) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoService{
		repo:      repo,
		telemetry: telemetry,
	}
}

func (ts *TodoService) GetAllTodos(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "GetAllTodos", nil)
	defer span.End()

	startTime := time.Now()
	todos, err := ts.repo.List(ctx)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "GetAllTodos", time.Since(startTime), err)

	return todos, err
}

func (ts *TodoService) GetTodoByID(ctx context.Context, id int64) (*domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "GetTodoByID", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()
	todo, err := ts.repo.GetByID(ctx, id)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "GetTodoByID", time.Since(startTime), err)

	return todo, err
}

func (ts *TodoService) CreateTodo(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "CreateTodo", map[string]interface{}{
		"todo.is_new": todo.IsNew(),
	})
	defer span.End()

	startTime := time.Now()
	saved, err := ts.repo.Save(ctx, todo)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "CreateTodo", time.Since(startTime), err)

	return saved, err
}

func (ts *TodoService) DeleteTodoByID(ctx context.Context, id int64) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "DeleteTodoByID", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()
	err := ts.repo.DeleteByID(ctx, id)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "DeleteTodoByID", time.Since(startTime), err)

	return err
}
