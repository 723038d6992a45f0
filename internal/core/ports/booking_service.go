package ports

import (
	"context"

	"github.com/monochrome/portal/internal/core/domain"
)

// BookingFormInput is what the booking modal submits.
type BookingFormInput struct {
	ServiceID          string
	Name               string
	Email              string
	Phone              string
	Company            string
	ProjectDescription string
	Budget             string
	Timeline           string
}

// BookingForm is the pre-filled booking modal. When Locked is true the name
// and email come from the session and cannot be edited.
type BookingForm struct {
	Service         *domain.Service `json:"service,omitempty"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Locked          bool            `json:"locked"`
	BudgetOptions   []string        `json:"budgetOptions"`
	TimelineOptions []string        `json:"timelineOptions"`
}

// BookingService drives the booking submission flow for authenticated and
// anonymous callers alike. A nil viewer means anonymous.
type BookingService interface {
	Form(ctx context.Context, viewer *Viewer, serviceSlug string) (*BookingForm, error)
	Submit(ctx context.Context, viewer *Viewer, input BookingFormInput) (*domain.Booking, error)
}

// CatalogService serves the public catalog pages.
type CatalogService interface {
	List(ctx context.Context, category string) ([]domain.Service, error)
	BySlug(ctx context.Context, slug string) (*domain.Service, error)
}
