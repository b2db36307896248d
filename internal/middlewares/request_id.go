package middlewares

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "requestId"
)

// RequestID tags every request with an id (reusing a well-formed incoming
// X-Request-ID) and logs the method and path.
func RequestID(c *gin.Context) {
	requestID := c.GetHeader(RequestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		requestID = uuid.NewString()
	}

	c.Set(RequestIDKey, requestID)
	c.Header(RequestIDHeader, requestID)

	log.Printf("Request: %s %s [%s]", c.Request.Method, c.Request.URL.Path, requestID)
	c.Next()
}
