package factory

import (
	fab "github.com/Goldziher/fabricator"
)

// NewTodo builds a T with fake field values. Todos built for insertion
// should override ID with 0.
func NewTodo[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	return instance.Build(customData...)
}
