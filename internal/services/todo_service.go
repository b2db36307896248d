package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"crud_api/internal/database"
	"crud_api/internal/models"
	"crud_api/internal/repositories"
	"crud_api/internal/utils"
)

var todoCSVHeader = []string{"id", "title", "description", "completed", "created_at", "updated_at"}

type TodoService struct {
	db       *database.DB
	todoRepo *repositories.TodoRepository
	now      func() time.Time
}

func NewTodoService(db *database.DB, todoRepo *repositories.TodoRepository) *TodoService {
	return &TodoService{
		db:       db,
		todoRepo: todoRepo,
		now:      time.Now,
	}
}

func (s *TodoService) ListTodos(ctx context.Context, completed *bool) ([]models.Todo, error) {
	todos, err := s.todoRepo.List(ctx, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) GetTodo(ctx context.Context, id int64) (*models.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

func (s *TodoService) CreateTodo(ctx context.Context, req models.CreateTodoRequest) (*models.Todo, error) {
	todo := req.Todo()
	todo.Prepare(s.now())

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to save todo: %w", err)
	}
	return todo, nil
}

// UpdateTodo applies a partial update. An empty patch returns the todo
// unchanged (updated_at included).
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, patch models.TodoUpdate) (*models.Todo, error) {
	if patch.IsEmpty() {
		return s.GetTodo(ctx, id)
	}

	patch.Normalize()
	ok, err := s.todoRepo.Update(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	if !ok {
		return nil, ErrTodoNotFound
	}
	return s.GetTodo(ctx, id)
}

func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	ok, err := s.todoRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if !ok {
		return ErrTodoNotFound
	}
	return nil
}

func (s *TodoService) DeleteAllTodos(ctx context.Context) (int64, error) {
	n, err := s.todoRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %w", err)
	}
	return n, nil
}

// ImportCSV appends the rows of a title,description,completed file. Rows
// without a title are skipped; completed accepts 1/true/yes.
func (s *TodoService) ImportCSV(ctx context.Context, content []byte) (*models.ImportResult, error) {
	records, err := readCSV(content, []string{"title"})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	collector := newImportCollector(now)
	var todos []*models.Todo
	for _, rec := range records {
		req := models.CreateTodoRequest{
			Title:       rec.get("title"),
			Description: optionalString(rec.get("description")),
			Completed:   utils.ParseTruthy(rec.get("completed")),
		}
		if err := utils.ValidateStruct(req); err != nil {
			collector.skipInvalid(rec.line, err)
			continue
		}
		todo := req.Todo()
		todo.Prepare(now)
		todos = append(todos, todo)
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := s.todoRepo.WithTx(tx)
		for _, todo := range todos {
			if err := repo.Create(ctx, todo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import todos: %w", err)
	}

	collector.imported = len(todos)
	return collector.result("todos"), nil
}

func (s *TodoService) ExportCSV(ctx context.Context) ([]byte, error) {
	todos, err := s.ListTodos(ctx, nil)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(todos))
	for _, todo := range todos {
		description := ""
		if todo.Description != nil {
			description = *todo.Description
		}
		rows = append(rows, []string{
			strconv.FormatInt(todo.ID, 10),
			todo.Title,
			description,
			strconv.FormatBool(todo.Completed),
			formatCSVTime(todo.CreatedAt),
			formatCSVTime(todo.UpdatedAt),
		})
	}
	return writeCSV(todoCSVHeader, rows)
}
