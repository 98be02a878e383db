package port

import (
	"context"

	"todos/internal/core/domain"
)

// TodoRepository is the data store gateway for todo records.
type TodoRepository interface {
	// List returns every stored todo ordered by id.
	List(ctx context.Context) ([]domain.Todo, error)

	// GetByID returns nil without an error when no todo has the given id.
	GetByID(ctx context.Context, id int64) (*domain.Todo, error)

	// Save inserts a todo without an id, or overwrites the todo with the
	// same id. An id that does not exist yet is inserted under a new id.
	Save(ctx context.Context, todo domain.Todo) (domain.Todo, error)

	// DeleteByID is a no-op when no todo has the given id.
	DeleteByID(ctx context.Context, id int64) error
}

type TodoService interface {
	GetAllTodos(ctx context.Context) ([]domain.Todo, error)
	GetTodoByID(ctx context.Context, id int64) (*domain.Todo, error)
	CreateTodo(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	DeleteTodoByID(ctx context.Context, id int64) error
}
