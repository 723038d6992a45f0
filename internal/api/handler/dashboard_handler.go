package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/monochrome/portal/internal/core/ports"
)

// DashboardHandler serves the role-specific dashboard pages. Every route is
// behind the guard; the page payload carries the layout and the view.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) page(c echo.Context, status int, viewer ports.Viewer, view any) error {
	return c.JSON(status, pageResponse{Layout: h.service.Layout(viewer), View: view})
}

// Overview handles GET /dashboard.
//
// @Summary      Dashboard overview
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  pageResponse
// @Failure      503  {object}  errorResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.Overview(c.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// Orders handles GET /dashboard/orders.
//
// @Summary      My orders
// @Tags         dashboard
// @Produce      json
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  pageResponse
// @Router       /dashboard/orders [get]
func (h *DashboardHandler) Orders(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.Orders(c.Request().Context(), viewer, c.QueryParam("status"))
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// Payments handles GET /dashboard/payments.
//
// @Summary      My payments
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /dashboard/payments [get]
func (h *DashboardHandler) Payments(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.Payments(c.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// Stats handles GET /dashboard/stats.
//
// @Summary      My statistics
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.Stats(c.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// --- Admin: bookings ---

// Bookings handles GET /dashboard/bookings.
//
// @Summary      All bookings
// @Tags         admin
// @Produce      json
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  pageResponse
// @Router       /dashboard/bookings [get]
func (h *DashboardHandler) Bookings(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.AdminBookings(c.Request().Context(), viewer, c.QueryParam("status"))
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// UpdateBooking handles PUT /dashboard/bookings/:id.
//
// @Summary      Update a booking's status or notes
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Booking ID"
// @Param        body  body      bookingUpdateRequest  true  "Fields to change"
// @Success      200   {object}  pageResponse
// @Failure      422   {object}  errorResponse
// @Router       /dashboard/bookings/{id} [put]
func (h *DashboardHandler) UpdateBooking(c echo.Context) error {
	var req bookingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.UpdateBooking(c.Request().Context(), viewer, c.Param("id"), toBookingUpdate(req))
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// DeleteBooking handles DELETE /dashboard/bookings/:id.
//
// @Summary      Delete a booking
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  pageResponse
// @Failure      404  {object}  errorResponse
// @Router       /dashboard/bookings/{id} [delete]
func (h *DashboardHandler) DeleteBooking(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.DeleteBooking(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// --- Admin: services ---

// Services handles GET /dashboard/services.
//
// @Summary      Manage the catalog
// @Tags         admin
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /dashboard/services [get]
func (h *DashboardHandler) Services(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.AdminServices(c.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// CreateService handles POST /dashboard/services.
//
// @Summary      Create a service
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      serviceRequest  true  "Service"
// @Success      201   {object}  pageResponse
// @Failure      400   {object}  errorResponse
// @Router       /dashboard/services [post]
func (h *DashboardHandler) CreateService(c echo.Context) error {
	return h.saveService(c, "", http.StatusCreated)
}

// UpdateService handles PUT /dashboard/services/:id.
//
// @Summary      Update a service
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Service ID"
// @Param        body  body      serviceRequest  true  "Service"
// @Success      200   {object}  pageResponse
// @Failure      400   {object}  errorResponse
// @Router       /dashboard/services/{id} [put]
func (h *DashboardHandler) UpdateService(c echo.Context) error {
	return h.saveService(c, c.Param("id"), http.StatusOK)
}

func (h *DashboardHandler) saveService(c echo.Context, id string, status int) error {
	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.SaveService(c.Request().Context(), viewer, id, toServiceInput(req))
	if err != nil {
		return err
	}
	return h.page(c, status, viewer, view)
}

// DeleteService handles DELETE /dashboard/services/:id.
//
// @Summary      Delete a service
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  pageResponse
// @Router       /dashboard/services/{id} [delete]
func (h *DashboardHandler) DeleteService(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.DeleteService(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// --- Admin: users ---

// Users handles GET /dashboard/users.
//
// @Summary      Manage users
// @Tags         admin
// @Produce      json
// @Param        role  query     string  false  "Role filter (all, user, admin)"
// @Success      200   {object}  pageResponse
// @Router       /dashboard/users [get]
func (h *DashboardHandler) Users(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.AdminUsers(c.Request().Context(), viewer, c.QueryParam("role"))
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// UpdateUser handles PUT /dashboard/users/:id.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      userUpdateRequest  true  "User fields"
// @Success      200   {object}  pageResponse
// @Failure      422   {object}  errorResponse
// @Router       /dashboard/users/{id} [put]
func (h *DashboardHandler) UpdateUser(c echo.Context) error {
	var req userUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.UpdateUser(c.Request().Context(), viewer, c.Param("id"), toUserUpdate(req))
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}

// DeleteUser handles DELETE /dashboard/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  pageResponse
// @Failure      422  {object}  errorResponse
// @Router       /dashboard/users/{id} [delete]
func (h *DashboardHandler) DeleteUser(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	view, err := h.service.DeleteUser(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, viewer, view)
}
