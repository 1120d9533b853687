package response

import (
	"github.com/gin-gonic/gin"

	"job-portal-backend/internal/domain"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// MessageBody is returned by mutations that carry no payload.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends data as-is; successful responses are plain projections of the rows.
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Message sends {"message": ...}
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageBody{Message: message})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{
		Error:     message,
		RequestID: c.GetString(string(domain.KeyRequestID)),
	})
}
