package api

import (
	"log/slog"
	"net/http"
	"time"

	"catalog/domain"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func writeError(c *gin.Context, status int, title, message string) {
	c.JSON(status, ErrorResponse{
		Status:    status,
		Error:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// respondError maps a use case error onto an HTTP reply.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case domain.IsEntityNotFound(err):
		writeError(c, http.StatusNotFound, "Entity not found", err.Error())
	case domain.IsInvalidDomainState(err):
		writeError(c, http.StatusBadRequest, "Invalid domain state", err.Error())
	default:
		logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		writeError(c, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred")
	}
}

func respondValidation(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, "Validation failed", err.Error())
}
