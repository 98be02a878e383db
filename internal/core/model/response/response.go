package response

import "todos/internal/core/domain"

type TodoResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
	}
}

func NewTodoListResponse(todos []domain.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		out = append(out, NewTodoResponse(todo))
	}

	return out
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
