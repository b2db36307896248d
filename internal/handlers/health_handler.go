package handlers

import (
	"context"
	"net/http"
	"time"

	"crud_api/internal/responses"

	"github.com/gin-gonic/gin"
)

// Version is reported by the welcome endpoint.
const Version = "1.0.0"

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Car Owner Management API",
		"version": Version,
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		responses.Fail(c, http.StatusServiceUnavailable, err, "Database unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
