package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an ID and logs method, path, status and
// duration once the handler is done.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Printf("request method=%s path=%s status=%d duration_ms=%d request_id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration.Milliseconds(), requestID)
	}
}
