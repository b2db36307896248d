package routes

import (
	"crud_api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type TodoRoutes struct {
	handler *handlers.TodoHandler
}

func NewTodoRoutes(handler *handlers.TodoHandler) *TodoRoutes {
	return &TodoRoutes{handler: handler}
}

func (r *TodoRoutes) RegisterRoutes(router *gin.RouterGroup) {
	todos := router.Group("/todos")
	{
		todos.GET("", r.handler.ListTodos)
		todos.POST("", r.handler.CreateTodo)
		todos.DELETE("", r.handler.DeleteAllTodos)
		todos.POST("/upload-csv", r.handler.UploadCSV)
		todos.GET("/export-csv", r.handler.ExportCSV)
		todos.GET("/:id", r.handler.GetTodo)
		todos.PUT("/:id", r.handler.UpdateTodo)
		todos.DELETE("/:id", r.handler.DeleteTodo)
	}
}
