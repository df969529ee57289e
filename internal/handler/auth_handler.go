package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"hospital-directory/internal/middleware"
	"hospital-directory/internal/observability"
	"hospital-directory/internal/service"
	"hospital-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
	prom        *observability.Prom
	log         *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, prom *observability.Prom, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		prom:        prom,
		log:         log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a hospital account. Served on both POST /hospitals/ and POST /register/.
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	hospital, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.JSON(c, http.StatusCreated, hospital)
}

// Login exchanges credentials for a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.prom.ObserveLogin("invalid_credentials")
		} else {
			h.prom.ObserveLogin("error")
		}
		respondError(c, h.log, err)
		return
	}
	h.prom.ObserveLogin("success")

	utils.JSON(c, http.StatusOK, result)
}

// Me returns the hospital the request's token was issued for
func (h *AuthHandler) Me(c *gin.Context) {
	hospital := middleware.CurrentHospital(c)
	if hospital == nil {
		respondError(c, h.log, service.ErrUnauthenticated)
		return
	}

	utils.JSON(c, http.StatusOK, hospital)
}
