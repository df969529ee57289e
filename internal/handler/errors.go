package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"hospital-directory/internal/observability"
	"hospital-directory/internal/service"
	"hospital-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondError writes the HTTP response for an error returned by the service layer.
// Unrecognised errors are logged and reported as a generic 500.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr.Message, verr.Fields)
	case errors.Is(err, service.ErrValidation):
		respondValidation(c, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, service.ErrUnauthenticated):
		utils.ErrorResponse(c, http.StatusUnauthorized, "unauthenticated", "No token provided")
	case errors.Is(err, service.ErrInvalidToken):
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid_token", "Invalid token")
	case errors.Is(err, service.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, "forbidden", "You may only modify your own records")
	case errors.Is(err, service.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "not_found", "Not found")
	default:
		observability.LogError(c.Request.Context(), log, "request failed", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func respondValidation(c *gin.Context, message string, fields map[string]string) {
	if len(fields) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "validation_error", message)
		return
	}
	utils.ErrorResponseWithDetails(c, http.StatusBadRequest, "validation_error", message, fields)
}

func respondNotFound(c *gin.Context) {
	utils.ErrorResponse(c, http.StatusNotFound, "not_found", "Not found")
}
