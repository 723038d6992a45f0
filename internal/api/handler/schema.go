package handler

import (
	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerRequest struct {
	Name            string `json:"name"            form:"name"            validate:"required"`
	Email           string `json:"email"           form:"email"           validate:"required,email"`
	Password        string `json:"password"        form:"password"        validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
}

type profileRequest struct {
	Name    string `json:"name"    form:"name"    validate:"required"`
	Contact string `json:"contact" form:"contact"`
}

type authResponse struct {
	User     domain.Profile `json:"user"`
	Redirect string         `json:"redirect"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

// --- Bookings ---

type bookingRequest struct {
	ServiceID          string `json:"serviceId"          form:"serviceId"          validate:"required"`
	Name               string `json:"name"               form:"name"`
	Email              string `json:"email"              form:"email"              validate:"omitempty,email"`
	Phone              string `json:"phone"              form:"phone"              validate:"required"`
	Company            string `json:"company"            form:"company"`
	ProjectDescription string `json:"projectDescription" form:"projectDescription" validate:"required"`
	Budget             string `json:"budget"             form:"budget"             validate:"required,budget"`
	Timeline           string `json:"timeline"           form:"timeline"           validate:"required,timeline"`
}

type bookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	Message string          `json:"message"`
}

// --- Dashboard ---

type pageResponse struct {
	Layout ports.LayoutView `json:"layout"`
	View   any              `json:"view"`
}

type bookingUpdateRequest struct {
	Status     *domain.BookingStatus `json:"status,omitempty"`
	AdminNotes *string               `json:"adminNotes,omitempty"`
}

type serviceRequest struct {
	Name            string  `json:"name"            form:"name"            validate:"required"`
	Slug            string  `json:"slug"            form:"slug"`
	Description     string  `json:"description"     form:"description"     validate:"required"`
	FullDescription string  `json:"fullDescription" form:"fullDescription"`
	Category        string  `json:"category"        form:"category"        validate:"required"`
	Price           float64 `json:"price"           form:"price"           validate:"required,gt=0"`
	DeliveryTime    string  `json:"deliveryTime"    form:"deliveryTime"`
	Features        string  `json:"features"        form:"features"`
	Tags            string  `json:"tags"            form:"tags"`
}

type userUpdateRequest struct {
	Name  string      `json:"name"  form:"name"  validate:"required"`
	Email string      `json:"email" form:"email" validate:"required,email"`
	Role  domain.Role `json:"role"  form:"role"  validate:"required,oneof=user admin"`
}
