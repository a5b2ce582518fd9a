package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/photonworks/facility-scheduler-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response. AppErrors carry their own status code
// and user-facing message; anything else becomes a generic 500 so internal
// details never leak upward.
func Error(c *gin.Context, err error) {
	status := apperror.StatusOf(err)

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(status, ErrorResponse{Error: appErr.Message})
		return
	}

	c.JSON(status, ErrorResponse{Error: "internal server error"})
}
