// utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// RespondWithError aborts the request with a JSON error body.
func RespondWithError(c *gin.Context, status int, message string) {
	RespondWithFields(c, status, message, nil)
}

// RespondWithFields is RespondWithError plus the list of offending fields.
func RespondWithFields(c *gin.Context, status int, message string, fields []string) {
	if status >= http.StatusInternalServerError {
		LoggerFrom(c).Error(message, zap.Int("status", status))
	} else {
		LoggerFrom(c).Debug(message, zap.Int("status", status), zap.Strings("fields", fields))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Fields: fields})
}

// ErrorHandler catches panics and answers with a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				LoggerFrom(c).Error("Unhandled panic", zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}
