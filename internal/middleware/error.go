package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusFunc maps a handler error to an HTTP status.
type StatusFunc func(error) int

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing one sent by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ErrorHandler renders the last error attached with c.Error as JSON, using
// status to pick the code, and turns panics into a 500.
func ErrorHandler(status StatusFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ErrorHandler] Panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:     "Internal Server Error",
					RequestID: c.GetString("request_id"),
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		code := status(err)
		if code >= http.StatusInternalServerError {
			log.Printf("[ErrorHandler] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(code, ErrorResponse{Error: err.Error(), RequestID: c.GetString("request_id")})
	}
}
