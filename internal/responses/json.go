package responses

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// Invalid answers 400 with one entry per failed field.
func Invalid(c *gin.Context, details []string, message string) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Status:  "error",
		Message: message,
		Error:   "validation failed",
		Details: details,
	})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// CSV sends body as a downloadable text/csv attachment.
func CSV(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
