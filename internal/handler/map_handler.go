package handler

import (
	"net/http"

	"hospital-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MapHandler hands the configured Mapbox access token to the frontend.
type MapHandler struct {
	token string
}

func NewMapHandler(token string) *MapHandler {
	return &MapHandler{token: token}
}

func (h *MapHandler) MapboxToken(c *gin.Context) {
	utils.JSON(c, http.StatusOK, gin.H{"token": h.token})
}
