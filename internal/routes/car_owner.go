package routes

import (
	"crud_api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type CarOwnerRoutes struct {
	handler *handlers.CarOwnerHandler
}

func NewCarOwnerRoutes(handler *handlers.CarOwnerHandler) *CarOwnerRoutes {
	return &CarOwnerRoutes{handler: handler}
}

func (r *CarOwnerRoutes) RegisterRoutes(router *gin.RouterGroup) {
	owners := router.Group("/car-owners")
	{
		owners.GET("", r.handler.ListCarOwners)
		owners.POST("", r.handler.CreateCarOwner)
		owners.POST("/upload-csv", r.handler.UploadCSV)
		owners.GET("/export-csv", r.handler.ExportCSV)
		owners.GET("/:id", r.handler.GetCarOwner)
		owners.PUT("/:id", r.handler.UpdateCarOwner)
		owners.DELETE("/:id", r.handler.DeleteCarOwner)
	}
}
