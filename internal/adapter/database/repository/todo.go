package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todos/internal/adapter/database"
	"todos/internal/core/domain"
	"todos/internal/core/port"
	tel "todos/internal/core/telemetry"
)

const (
	todoTable  = "todos"
	todoEntity = "todo"
)

var todoColumns = []string{"id", "title", "completed"}

// TodoRepository stores todos in any database.DB; the SQL it builds is
// valid for both sqlite and postgres.
type TodoRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *database.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (tr *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := tr.startSpan(ctx, "List", nil)
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Select(todoColumns...).
		From(todoTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, tr.fail(ctx, span, "List", startTime, fmt.Errorf("build list query: %w", err))
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "List", todoEntity, query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, tr.fail(ctx, span, "List", startTime, fmt.Errorf("list todos: %w", err))
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)

	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Completed); err != nil {
			return nil, tr.fail(ctx, span, "List", startTime, fmt.Errorf("scan todo: %w", err))
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, tr.fail(ctx, span, "List", startTime, fmt.Errorf("list todos: %w", err))
	}

	span.SetAttributes(map[string]interface{}{
		"db.rows_returned": len(todos),
	})

	tr.succeed(ctx, span, "List", startTime)

	return todos, nil
}

// GetByID returns nil without error when no todo has the given id.
func (tr *TodoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	ctx, span := tr.startSpan(ctx, "GetByID", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Select(todoColumns...).
		From(todoTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, tr.fail(ctx, span, "GetByID", startTime, fmt.Errorf("build get query: %w", err))
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "GetByID", todoEntity, query, args)

	var todo domain.Todo

	err = tr.db.QueryRowContext(ctx, query, args...).Scan(&todo.ID, &todo.Title, &todo.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(map[string]interface{}{"db.found": false})
		tr.succeed(ctx, span, "GetByID", startTime)

		return nil, nil
	}

	if err != nil {
		return nil, tr.fail(ctx, span, "GetByID", startTime, fmt.Errorf("get todo %d: %w", id, err))
	}

	span.SetAttributes(map[string]interface{}{"db.found": true})
	tr.succeed(ctx, span, "GetByID", startTime)

	return &todo, nil
}

// Save inserts a new todo, or overwrites the row matching todo.ID. A todo
// carrying an id that is not stored is inserted under a fresh id.
func (tr *TodoRepository) Save(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.startSpan(ctx, "Save", map[string]interface{}{
		"todo.id":     todo.ID,
		"todo.is_new": todo.IsNew(),
	})
	defer span.End()

	startTime := time.Now()

	if !todo.IsNew() {
		id, err := tr.update(ctx, todo)
		if err == nil {
			todo.ID = id
			tr.succeed(ctx, span, "Save", startTime)

			return todo, nil
		}

		if !errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, tr.fail(ctx, span, "Save", startTime, err)
		}

		span.SetAttributes(map[string]interface{}{"db.update_missed": true})
	}

	id, err := tr.insert(ctx, todo)
	if err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "Save", startTime, err)
	}

	todo.ID = id
	span.SetAttributes(map[string]interface{}{"todo.id": id})
	tr.succeed(ctx, span, "Save", startTime)

	return todo, nil
}

func (tr *TodoRepository) insert(ctx context.Context, todo domain.Todo) (int64, error) {
	query, args, err := tr.db.QueryBuilder.
		Insert(todoTable).
		Columns("title", "completed").
		Values(todo.Title, todo.Completed).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert query: %w", err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Save", todoEntity, query, args)

	var id int64
	if err := tr.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert todo: %w", err)
	}

	return id, nil
}

// update returns sql.ErrNoRows when no row has todo.ID.
func (tr *TodoRepository) update(ctx context.Context, todo domain.Todo) (int64, error) {
	query, args, err := tr.db.QueryBuilder.
		Update(todoTable).
		SetMap(todo.ToMap()).
		Where(sq.Eq{"id": todo.ID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update query: %w", err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Save", todoEntity, query, args)

	var id int64

	err = tr.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if err != nil {
		return 0, fmt.Errorf("update todo %d: %w", todo.ID, err)
	}

	return id, nil
}

// DeleteByID succeeds when nothing matches id.
func (tr *TodoRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := tr.startSpan(ctx, "DeleteByID", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Delete(todoTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return tr.fail(ctx, span, "DeleteByID", startTime, fmt.Errorf("build delete query: %w", err))
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "DeleteByID", todoEntity, query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return tr.fail(ctx, span, "DeleteByID", startTime, fmt.Errorf("delete todo %d: %w", id, err))
	}

	if affected, err := result.RowsAffected(); err == nil {
		span.SetAttributes(map[string]interface{}{"db.rows_affected": affected})
	}

	tr.succeed(ctx, span, "DeleteByID", startTime)

	return nil
}

func (tr *TodoRepository) startSpan(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	all := map[string]interface{}{
		"db.system": string(tr.db.System),
		"db.table":  todoTable,
	}

	for k, v := range attrs {
		all[k] = v
	}

	return tr.telemetry.StartRepositorySpan(ctx, operation, todoEntity, all)
}

func (tr *TodoRepository) succeed(ctx context.Context, span port.Span, operation string, startTime time.Time) {
	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, operation, todoEntity, time.Since(startTime), nil)
}

func (tr *TodoRepository) fail(ctx context.Context, span port.Span, operation string, startTime time.Time, err error) error {
	span.SetStatus("error", err.Error())
	span.RecordError(err)
	tr.telemetry.RecordRepositoryOperation(ctx, operation, todoEntity, time.Since(startTime), err)

	return err
}
