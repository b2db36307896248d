package routes

import (
	"log"

	"crud_api/internal/config"
	"crud_api/internal/handlers"
	"crud_api/internal/middlewares"
	"crud_api/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Todo     *handlers.TodoHandler
	CarOwner *handlers.CarOwnerHandler
	Car      *handlers.CarHandler
}

// NewRouter builds the gin engine with middlewares and every route.
func NewRouter(cfg *config.Config, h Handlers) *gin.Engine {
	if err := utils.RegisterValidators(); err != nil {
		log.Printf("failed to register validators: %v", err)
	}

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(middlewares.RequestID)
	router.Use(middlewares.CORS(cfg.CORSAllowOrigins))

	RegisterRoutes(router, h)
	return router
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/", h.Health.Root)
	router.GET("/health", h.Health.Health)

	api := router.Group("")

	todoRoutes := NewTodoRoutes(h.Todo)
	todoRoutes.RegisterRoutes(api)

	carOwnerRoutes := NewCarOwnerRoutes(h.CarOwner)
	carOwnerRoutes.RegisterRoutes(api)

	carRoutes := NewCarRoutes(h.Car)
	carRoutes.RegisterRoutes(api)
}
