package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"hospital-directory/internal/middleware"
	"hospital-directory/internal/service"
	"hospital-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HospitalHandler struct {
	hospitalService *service.HospitalService
	log             *slog.Logger
}

func NewHospitalHandler(hospitalService *service.HospitalService, log *slog.Logger) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
		log:             log,
	}
}

// ListHospitals returns every hospital with its services
func (h *HospitalHandler) ListHospitals(c *gin.Context) {
	hospitals, err := h.hospitalService.ListHospitals(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.JSON(c, http.StatusOK, hospitals)
}

// GetHospital retrieves a specific hospital by ID
func (h *HospitalHandler) GetHospital(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	hospital, err := h.hospitalService.GetHospital(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.JSON(c, http.StatusOK, hospital)
}

// UpdateHospital handles PUT and PATCH on /hospitals/{id}/. Both are partial.
func (h *HospitalHandler) UpdateHospital(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.update(c, id)
}

// UpdateMe updates the hospital the request's token was issued for
func (h *HospitalHandler) UpdateMe(c *gin.Context) {
	caller := middleware.CurrentHospital(c)
	if caller == nil {
		respondError(c, h.log, service.ErrUnauthenticated)
		return
	}
	h.update(c, caller.ID)
}

func (h *HospitalHandler) update(c *gin.Context, id uint) {
	var req service.HospitalUpdateInput
	if !bindJSON(c, &req) {
		return
	}

	hospital, err := h.hospitalService.UpdateHospital(c.Request.Context(), middleware.CurrentHospital(c), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.JSON(c, http.StatusOK, hospital)
}

// DeleteHospital removes the caller's hospital and its services
func (h *HospitalHandler) DeleteHospital(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.hospitalService.DeleteHospital(c.Request.Context(), middleware.CurrentHospital(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseID reads the numeric :id path parameter. Anything else is a 404.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondNotFound(c)
		return 0, false
	}
	return uint(id), true
}
