package handlers

import (
	"net/http"

	"crud_api/internal/models"
	"crud_api/internal/responses"
	"crud_api/internal/services"

	"github.com/gin-gonic/gin"
)

type CarOwnerHandler struct {
	ownerService   *services.CarOwnerService
	maxUploadBytes int64
}

func NewCarOwnerHandler(ownerService *services.CarOwnerService, maxUploadBytes int64) *CarOwnerHandler {
	return &CarOwnerHandler{
		ownerService:   ownerService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListCarOwners handles GET /car-owners
func (h *CarOwnerHandler) ListCarOwners(c *gin.Context) {
	owners, err := h.ownerService.ListCarOwners(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to list car owners")
		return
	}

	responses.Success(c, http.StatusOK, owners, "Car owners retrieved successfully")
}

// GetCarOwner handles GET /car-owners/:id
func (h *CarOwnerHandler) GetCarOwner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	owner, err := h.ownerService.GetCarOwner(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "Failed to get car owner")
		return
	}

	responses.Success(c, http.StatusOK, owner, "Car owner retrieved successfully")
}

// CreateCarOwner handles POST /car-owners
func (h *CarOwnerHandler) CreateCarOwner(c *gin.Context) {
	var req models.CreateCarOwnerRequest
	if !bindJSON(c, &req) {
		return
	}

	owner, err := h.ownerService.CreateCarOwner(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "Failed to create car owner")
		return
	}

	responses.Success(c, http.StatusCreated, owner, "Car owner created successfully")
}

// UpdateCarOwner handles PUT /car-owners/:id
func (h *CarOwnerHandler) UpdateCarOwner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch models.CarOwnerUpdate
	if !bindJSON(c, &patch) {
		return
	}

	owner, err := h.ownerService.UpdateCarOwner(c.Request.Context(), id, patch)
	if err != nil {
		writeServiceError(c, err, "Failed to update car owner")
		return
	}

	responses.Success(c, http.StatusOK, owner, "Car owner updated successfully")
}

// DeleteCarOwner handles DELETE /car-owners/:id
func (h *CarOwnerHandler) DeleteCarOwner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ownerService.DeleteCarOwner(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "Failed to delete car owner")
		return
	}

	responses.NoContent(c)
}

// UploadCSV handles POST /car-owners/upload-csv
func (h *CarOwnerHandler) UploadCSV(c *gin.Context) {
	content, ok := readCSVUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	result, err := h.ownerService.ImportCSV(c.Request.Context(), content)
	if err != nil {
		writeServiceError(c, err, "Failed to import car owners")
		return
	}

	responses.Success(c, http.StatusOK, result, result.Message)
}

// ExportCSV handles GET /car-owners/export-csv
func (h *CarOwnerHandler) ExportCSV(c *gin.Context) {
	body, err := h.ownerService.ExportCSV(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to export car owners")
		return
	}

	responses.CSV(c, "car_owners.csv", body)
}
