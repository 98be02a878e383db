package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTodoRequest_ToDomain(t *testing.T) {
	var req TodoRequest
	err := json.Unmarshal([]byte(`{"title":"buy milk"}`), &req)
	assert.NoError(t, err)

	todo := req.ToDomain()
	assert.True(t, todo.IsNew())
	assert.Equal(t, "buy milk", todo.Title)
	assert.False(t, todo.Completed)
}

func TestTodoRequest_ToDomainKeepsID(t *testing.T) {
	req := TodoRequest{ID: 7, Title: "walk", Completed: true}

	todo := req.ToDomain()
	assert.Equal(t, int64(7), todo.ID)
	assert.True(t, todo.Completed)
}
