package handlers

import (
	"net/http"

	"crud_api/internal/models"
	"crud_api/internal/responses"
	"crud_api/internal/services"
	"crud_api/internal/utils"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	todoService    *services.TodoService
	maxUploadBytes int64
}

func NewTodoHandler(todoService *services.TodoService, maxUploadBytes int64) *TodoHandler {
	return &TodoHandler{
		todoService:    todoService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListTodos handles GET /todos
func (h *TodoHandler) ListTodos(c *gin.Context) {
	completed, err := utils.ParseOptionalBool(c.Query("completed"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid completed filter")
		return
	}

	todos, err := h.todoService.ListTodos(c.Request.Context(), completed)
	if err != nil {
		writeServiceError(c, err, "Failed to list todos")
		return
	}

	responses.Success(c, http.StatusOK, todos, "Todos retrieved successfully")
}

// GetTodo handles GET /todos/:id
func (h *TodoHandler) GetTodo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "Failed to get todo")
		return
	}

	responses.Success(c, http.StatusOK, todo, "Todo retrieved successfully")
}

// CreateTodo handles POST /todos
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var req models.CreateTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, err := h.todoService.CreateTodo(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "Failed to create todo")
		return
	}

	responses.Success(c, http.StatusCreated, todo, "Todo created successfully")
}

// UpdateTodo handles PUT /todos/:id
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch models.TodoUpdate
	if !bindJSON(c, &patch) {
		return
	}

	todo, err := h.todoService.UpdateTodo(c.Request.Context(), id, patch)
	if err != nil {
		writeServiceError(c, err, "Failed to update todo")
		return
	}

	responses.Success(c, http.StatusOK, todo, "Todo updated successfully")
}

// DeleteTodo handles DELETE /todos/:id
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "Failed to delete todo")
		return
	}

	responses.NoContent(c)
}

// DeleteAllTodos handles DELETE /todos
func (h *TodoHandler) DeleteAllTodos(c *gin.Context) {
	if _, err := h.todoService.DeleteAllTodos(c.Request.Context()); err != nil {
		writeServiceError(c, err, "Failed to delete todos")
		return
	}

	responses.NoContent(c)
}

// UploadCSV handles POST /todos/upload-csv
func (h *TodoHandler) UploadCSV(c *gin.Context) {
	content, ok := readCSVUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	result, err := h.todoService.ImportCSV(c.Request.Context(), content)
	if err != nil {
		writeServiceError(c, err, "Failed to import todos")
		return
	}

	responses.Success(c, http.StatusOK, result, result.Message)
}

// ExportCSV handles GET /todos/export-csv
func (h *TodoHandler) ExportCSV(c *gin.Context) {
	body, err := h.todoService.ExportCSV(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to export todos")
		return
	}

	responses.CSV(c, "todos.csv", body)
}
