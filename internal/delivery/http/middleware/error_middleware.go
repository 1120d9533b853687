package middleware

import (
	"errors"
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			if appErr.Code >= http.StatusInternalServerError {
				logError(c, err)
			}
			response.Error(c, appErr.Code, appErr.Message)
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "Not found")
		default:
			// Internal details stay in the server log.
			logError(c, err)
			response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		}
	}
}

func logError(c *gin.Context, err error) {
	logger.Log.Error("Request failed",
		"error", err,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"request_id", c.GetString(string(domain.KeyRequestID)),
	)
}
