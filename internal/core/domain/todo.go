package domain

// Todo is the only entity the service manages. ID is assigned by the store
// on the first save and never changes afterwards.
type Todo struct {
	ID        int64
	Title     string
	Completed bool
}

// IsNew reports whether the todo has not been persisted yet.
func (t *Todo) IsNew() bool {
	return t.ID == 0
}

func (t *Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"title":     t.Title,
		"completed": t.Completed,
	}
}
