package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"crud_api/internal/middlewares"
	"crud_api/internal/responses"
	"crud_api/internal/services"
	"crud_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// multipart headers and boundaries on top of the file itself
const multipartOverhead = 1 << 20

const (
	msgNotCSV       = "File must be a CSV file"
	msgFileRequired = "CSV file is required in form field 'file'"
)

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid id")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into req and answers 400 when that fails.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			responses.Invalid(c, utils.ValidationMessages(err), "Invalid request body")
			return false
		}
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return false
	}
	return true
}

// readCSVUpload returns the content of the multipart "file" field. It
// answers 400 itself and returns false when the upload is unusable.
func readCSVUpload(c *gin.Context, maxBytes int64) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			responses.Fail(c, http.StatusBadRequest, err, fmt.Sprintf("File exceeds the %d byte upload limit", maxBytes))
			return nil, false
		}
		responses.Fail(c, http.StatusBadRequest, err, msgFileRequired)
		return nil, false
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		responses.Fail(c, http.StatusBadRequest, nil, msgNotCSV)
		return nil, false
	}
	if fileHeader.Size > maxBytes {
		responses.Fail(c, http.StatusBadRequest, nil, fmt.Sprintf("File exceeds the %d byte upload limit", maxBytes))
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Could not read uploaded file")
		return nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Could not read uploaded file")
		return nil, false
	}
	return content, true
}

// writeServiceError maps service sentinels onto HTTP status codes.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		responses.Fail(c, http.StatusNotFound, err, "Todo not found")
	case errors.Is(err, services.ErrCarOwnerNotFound):
		responses.Fail(c, http.StatusNotFound, err, "Car owner not found")
	case errors.Is(err, services.ErrCarNotFound):
		responses.Fail(c, http.StatusNotFound, err, "Car not found")
	case errors.Is(err, services.ErrOwnerDoesNotExist):
		responses.Fail(c, http.StatusBadRequest, err, "Invalid owner_id")
	case errors.Is(err, services.ErrEmailTaken):
		responses.Fail(c, http.StatusConflict, err, "Email already registered")
	case errors.Is(err, services.ErrInvalidCSV):
		responses.Fail(c, http.StatusBadRequest, err, "Error importing CSV")
	default:
		log.Printf("ERROR %s %s [%s]: %v", c.Request.Method, c.Request.URL.Path, c.GetString(middlewares.RequestIDKey), err)
		responses.Fail(c, http.StatusInternalServerError, err, fallback)
	}
}
