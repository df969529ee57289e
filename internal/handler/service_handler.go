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

type ServiceHandler struct {
	catalog *service.CatalogService
	log     *slog.Logger
}

func NewServiceHandler(catalog *service.CatalogService, log *slog.Logger) *ServiceHandler {
	return &ServiceHandler{
		catalog: catalog,
		log:     log,
	}
}

// ListServices returns all services, or one hospital's with ?hospital=<id>
func (h *ServiceHandler) ListServices(c *gin.Context) {
	var hospitalID *uint
	if raw, ok := c.GetQuery("hospital"); ok {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondValidation(c, "Invalid hospital filter", map[string]string{
				"hospital": "must be a hospital id",
			})
			return
		}
		v := uint(id)
		hospitalID = &v
	}

	services, err := h.catalog.ListServices(c.Request.Context(), hospitalID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.JSON(c, http.StatusOK, services)
}

// CreateService adds a service to the hospital the Authorization header identifies.
// Any hospital named in the body is ignored.
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req service.ServiceInput
	if !bindJSON(c, &req) {
		return
	}

	svc, err := h.catalog.CreateService(c.Request.Context(), c.GetHeader("Authorization"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.JSON(c, http.StatusCreated, svc)
}

func (h *ServiceHandler) GetService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	svc, err := h.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.JSON(c, http.StatusOK, svc)
}

// UpdateService handles PUT and PATCH on /services/{id}/
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ServiceUpdateInput
	if !bindJSON(c, &req) {
		return
	}

	svc, err := h.catalog.UpdateService(c.Request.Context(), middleware.CurrentHospital(c), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.JSON(c, http.StatusOK, svc)
}

func (h *ServiceHandler) DeleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteService(c.Request.Context(), middleware.CurrentHospital(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
