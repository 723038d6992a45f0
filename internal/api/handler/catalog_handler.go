package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/monochrome/portal/internal/core/ports"
)

// CatalogHandler serves the public service catalog.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List handles GET /services.
//
// @Summary      List services
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Category filter (all, development, design, security, optimization, maintenance)"
// @Success      200       {array}   domain.Service
// @Failure      422       {object}  errorResponse
// @Failure      503       {object}  errorResponse
// @Router       /services [get]
func (h *CatalogHandler) List(c echo.Context) error {
	services, err := h.service.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, services)
}

// Get handles GET /services/:slug.
//
// @Summary      Get a service by slug
// @Tags         catalog
// @Produce      json
// @Param        slug  path      string  true  "Service slug"
// @Success      200   {object}  domain.Service
// @Failure      404   {object}  errorResponse
// @Router       /services/{slug} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	svc, err := h.service.BySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}
