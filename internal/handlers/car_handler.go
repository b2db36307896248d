package handlers

import (
	"net/http"

	"crud_api/internal/models"
	"crud_api/internal/responses"
	"crud_api/internal/services"
	"crud_api/internal/utils"

	"github.com/gin-gonic/gin"
)

type CarHandler struct {
	carService     *services.CarService
	maxUploadBytes int64
}

func NewCarHandler(carService *services.CarService, maxUploadBytes int64) *CarHandler {
	return &CarHandler{
		carService:     carService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListCars handles GET /cars
func (h *CarHandler) ListCars(c *gin.Context) {
	ownerID, err := utils.ParseOptionalID(c.Query("owner_id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid owner_id filter")
		return
	}

	cars, err := h.carService.ListCars(c.Request.Context(), ownerID)
	if err != nil {
		writeServiceError(c, err, "Failed to list cars")
		return
	}

	responses.Success(c, http.StatusOK, cars, "Cars retrieved successfully")
}

// GetCar handles GET /cars/:id
func (h *CarHandler) GetCar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	car, err := h.carService.GetCar(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "Failed to get car")
		return
	}

	responses.Success(c, http.StatusOK, car, "Car retrieved successfully")
}

// CreateCar handles POST /cars
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req models.CreateCarRequest
	if !bindJSON(c, &req) {
		return
	}

	car, err := h.carService.CreateCar(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "Failed to create car")
		return
	}

	responses.Success(c, http.StatusCreated, car, "Car created successfully")
}

// UpdateCar handles PUT /cars/:id
func (h *CarHandler) UpdateCar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch models.CarUpdate
	if !bindJSON(c, &patch) {
		return
	}

	car, err := h.carService.UpdateCar(c.Request.Context(), id, patch)
	if err != nil {
		writeServiceError(c, err, "Failed to update car")
		return
	}

	responses.Success(c, http.StatusOK, car, "Car updated successfully")
}

// DeleteCar handles DELETE /cars/:id
func (h *CarHandler) DeleteCar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.carService.DeleteCar(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "Failed to delete car")
		return
	}

	responses.NoContent(c)
}

// UploadCSV handles POST /cars/upload-csv
func (h *CarHandler) UploadCSV(c *gin.Context) {
	content, ok := readCSVUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	result, err := h.carService.ImportCSV(c.Request.Context(), content)
	if err != nil {
		writeServiceError(c, err, "Failed to import cars")
		return
	}

	responses.Success(c, http.StatusOK, result, result.Message)
}

// ExportCSV handles GET /cars/export-csv
func (h *CarHandler) ExportCSV(c *gin.Context) {
	ownerID, err := utils.ParseOptionalID(c.Query("owner_id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid owner_id filter")
		return
	}

	body, err := h.carService.ExportCSV(c.Request.Context(), ownerID)
	if err != nil {
		writeServiceError(c, err, "Failed to export cars")
		return
	}

	responses.CSV(c, "cars.csv", body)
}
