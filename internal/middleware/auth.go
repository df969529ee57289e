package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hospital-directory/internal/models"
	"hospital-directory/internal/observability"
	"hospital-directory/internal/service"
	"hospital-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

const ctxHospital = "hospital"

// IdentityResolver maps an Authorization header to the calling hospital.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization string) (*models.Hospital, error)
}

// RequireHospital resolves the "Authorization: Token <value>" header and
// stores the calling hospital in the context for downstream handlers.
func RequireHospital(resolver IdentityResolver, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		hospital, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnauthenticated):
				utils.AbortWithError(c, http.StatusUnauthorized, "unauthenticated", "No token provided")
			case errors.Is(err, service.ErrInvalidToken):
				utils.AbortWithError(c, http.StatusUnauthorized, "invalid_token", "Invalid token")
			case errors.Is(err, service.ErrNotFound):
				utils.AbortWithError(c, http.StatusNotFound, "not_found", "Hospital not found")
			default:
				observability.LogError(c.Request.Context(), log, "resolve identity", err)
				utils.AbortWithError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
			}
			return
		}

		c.Set(ctxHospital, hospital)
		c.Next()
	}
}

// CurrentHospital returns the hospital set by RequireHospital, or nil.
func CurrentHospital(c *gin.Context) *models.Hospital {
	v, ok := c.Get(ctxHospital)
	if !ok {
		return nil
	}
	hospital, _ := v.(*models.Hospital)
	return hospital
}
