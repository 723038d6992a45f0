package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/monochrome/portal/internal/core/ports"
)

// BookingHandler serves the booking modal to logged-in and anonymous visitors.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Form handles GET /bookings/form.
//
// @Summary      Booking form
// @Description  Name and email are pre-filled and locked when logged in.
// @Tags         bookings
// @Produce      json
// @Param        service  query     string  false  "Service slug"
// @Success      200      {object}  ports.BookingForm
// @Failure      404      {object}  errorResponse
// @Router       /bookings/form [get]
func (h *BookingHandler) Form(c echo.Context) error {
	form, err := h.service.Form(c.Request().Context(), ctxOptionalViewer(c), c.QueryParam("service"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, form)
}

// Submit handles POST /bookings.
//
// @Summary      Submit a booking
// @Description  Sent with the session token when logged in, without one otherwise.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body      bookingRequest  true  "Booking details"
// @Success      201   {object}  bookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /bookings [post]
func (h *BookingHandler) Submit(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.Submit(c.Request().Context(), ctxOptionalViewer(c), toBookingInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, bookingResponse{
		Booking: booking,
		Message: "Booking submitted successfully! We'll contact you soon.",
	})
}
