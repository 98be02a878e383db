package request

import "todos/internal/core/domain"

// TodoRequest is the body accepted by POST /api/todos. An id may be sent
// to overwrite an existing todo.
type TodoRequest struct {
	ID        int64  `json:"id,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (r TodoRequest) ToDomain() domain.Todo {
	return domain.Todo{
		ID:        r.ID,
		Title:     r.Title,
		Completed: r.Completed,
	}
}
