package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crud_api/internal/database"
	"crud_api/internal/models"
)

const todoColumns = `id, title, description, completed, created_at, updated_at`

type TodoRepository struct {
	base
}

func NewTodoRepository(db *database.DB) *TodoRepository {
	return &TodoRepository{base: base{q: db, dialect: db.Dialect}}
}

// WithTx returns a copy of the repository bound to tx.
func (r *TodoRepository) WithTx(tx *sql.Tx) *TodoRepository {
	return &TodoRepository{base: r.withTx(tx)}
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var (
		todo        models.Todo
		description sql.NullString
		createdAt   string
		updatedAt   string
		err         error
	)
	if err := row.Scan(&todo.ID, &todo.Title, &description, &todo.Completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	todo.Description = stringPtr(description)
	if todo.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if todo.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &todo, nil
}

// List returns todos ordered by id, filtered by completed when it is set.
func (r *TodoRepository) List(ctx context.Context, completed *bool) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos`
	var args []any
	if completed != nil {
		query += ` WHERE completed = ?`
		args = append(args, *completed)
	}
	query += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}

	return todos, rows.Err()
}

func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`

	todo, err := scanTodo(r.q.QueryRowContext(ctx, r.rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return todo, nil
}

// Create inserts todo and fills in the id the database assigned.
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (title, description, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, r.rebind(query),
		todo.Title,
		nullString(todo.Description),
		todo.Completed,
		formatTime(todo.CreatedAt),
		formatTime(todo.UpdatedAt),
	).Scan(&todo.ID)
}

// Update writes the fields present in patch and always bumps updated_at.
// It reports false when no todo has that id.
func (r *TodoRepository) Update(ctx context.Context, id int64, patch models.TodoUpdate, now time.Time) (bool, error) {
	b := NewUpdateBuilder("todos")
	if patch.Title != nil {
		b.Set("title", *patch.Title)
	}
	if patch.WritesDescription() {
		b.Set("description", nullString(patch.Description))
	}
	if patch.Completed != nil {
		b.Set("completed", *patch.Completed)
	}
	b.Set("updated_at", formatTime(now))

	query, args, err := b.Build("id = ?", id)
	if err != nil {
		return false, err
	}

	result, err := r.q.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, r.rebind(`DELETE FROM todos WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteAll removes every todo and returns how many rows went away.
func (r *TodoRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM todos`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
