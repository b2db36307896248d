package routes

import (
	"crud_api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type CarRoutes struct {
	handler *handlers.CarHandler
}

func NewCarRoutes(handler *handlers.CarHandler) *CarRoutes {
	return &CarRoutes{handler: handler}
}

func (r *CarRoutes) RegisterRoutes(router *gin.RouterGroup) {
	cars := router.Group("/cars")
	{
		cars.GET("", r.handler.ListCars)
		cars.POST("", r.handler.CreateCar)
		cars.POST("/upload-csv", r.handler.UploadCSV)
		cars.GET("/export-csv", r.handler.ExportCSV)
		cars.GET("/:id", r.handler.GetCar)
		cars.PUT("/:id", r.handler.UpdateCar)
		cars.DELETE("/:id", r.handler.DeleteCar)
	}
}
