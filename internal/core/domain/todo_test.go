package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTodo_IsNew(t *testing.T) {
	t.Run("should return true when ID is zero", func(t *testing.T) {
		todo := Todo{Title: "buy milk"}

		assert.True(t, todo.IsNew())
	})

	t.Run("should return false when ID is set", func(t *testing.T) {
		todo := Todo{ID: 7, Title: "buy milk"}

		assert.False(t, todo.IsNew())
	})
}

func TestTodo_ToMap(t *testing.T) {
	todo := Todo{ID: 3, Title: "walk the dog", Completed: true}

	data := todo.ToMap()

	assert.Equal(t, "walk the dog", data["title"])
	assert.Equal(t, true, data["completed"])
	assert.NotContains(t, data, "id")
}
