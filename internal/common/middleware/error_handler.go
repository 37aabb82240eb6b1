package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "youguo-backend/internal/common/errors"
	"youguo-backend/internal/common/logger"
)

// RequestID assigns an id to every request, reusing the caller's when given.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Success   bool                `json:"success"`
	Error     *apperrors.AppError `json:"error"`
	Timestamp time.Time           `json:"timestamp"`
	RequestID string              `json:"request_id"`
	Path      string              `json:"path,omitempty"`
}

// ErrorHandler recovers panics and renders them as typed internal errors.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString("request_id")

		logger.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := apperrors.New(apperrors.ErrCodeInternal, "Internal server error").
			WithRequestID(requestID).
			WithDetail("panic", fmt.Sprintf("%v", recovered))

		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Success:   false,
			Error:     appErr,
			Timestamp: time.Now(),
			RequestID: requestID,
			Path:      c.Request.URL.Path,
		})
	})
}

// StatusCode maps an application error to its HTTP status.
func StatusCode(appErr *apperrors.AppError) int {
	switch {
	case appErr.Code == apperrors.ErrCodeValidation, appErr.Code == apperrors.ErrCodeUnknownSeed:
		return http.StatusBadRequest
	case appErr.Code == apperrors.ErrCodeNotFound,
		appErr.Code == apperrors.ErrCodeUserNotFound,
		appErr.Code == apperrors.ErrCodeTaskNotFound:
		return http.StatusNotFound
	case appErr.Code == apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.Code == apperrors.ErrCodeForbidden, appErr.Code == apperrors.ErrCodeUserBanned:
		return http.StatusForbidden
	case appErr.IsRejection():
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Abort renders an application error on the gin context.
func Abort(c *gin.Context, appErr *apperrors.AppError) {
	appErr.WithRequestID(c.GetString("request_id"))
	c.AbortWithStatusJSON(StatusCode(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: c.GetString("request_id"),
		Path:      c.Request.URL.Path,
	})
}
