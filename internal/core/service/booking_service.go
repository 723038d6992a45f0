package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/api/metrics"
	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// BookingService serves the booking form and submits bookings on behalf of
// logged-in and anonymous callers.
type BookingService struct {
	bookings ports.BookingAPI
	catalog  ports.CatalogAPI
	logger   zerolog.Logger
}

var _ ports.BookingService = (*BookingService)(nil)

func NewBookingService(bookings ports.BookingAPI, catalog ports.CatalogAPI, logger zerolog.Logger) *BookingService {
	return &BookingService{bookings: bookings, catalog: catalog, logger: logger}
}

// Form returns the booking form, pre-filled and locked for a logged-in viewer.
func (s *BookingService) Form(ctx context.Context, viewer *ports.Viewer, serviceSlug string) (*ports.BookingForm, error) {
	form := &ports.BookingForm{
		BudgetOptions:   slices.Clone(domain.BudgetOptions),
		TimelineOptions: slices.Clone(domain.TimelineOptions),
	}
	if serviceSlug != "" {
		svc, err := s.catalog.BySlug(ctx, serviceSlug)
		if err != nil {
			return nil, fmt.Errorf("booking form: %w", err)
		}
		form.Service = &svc
	}
	if viewer != nil {
		form.Name = viewer.Profile.Name
		form.Email = viewer.Profile.Email
		form.Locked = true
	}
	return form, nil
}

// Submit creates a booking. A logged-in viewer's name and email replace the
// submitted ones and the token is attached; an anonymous caller sends no
// Authorization header at all.
func (s *BookingService) Submit(ctx context.Context, viewer *ports.Viewer, input ports.BookingFormInput) (*domain.Booking, error) {
	req := domain.BookingRequest{
		ServiceID:          strings.TrimSpace(input.ServiceID),
		Name:               strings.TrimSpace(input.Name),
		Email:              strings.TrimSpace(input.Email),
		Phone:              strings.TrimSpace(input.Phone),
		Company:            strings.TrimSpace(input.Company),
		ProjectDescription: strings.TrimSpace(input.ProjectDescription),
		Budget:             input.Budget,
		Timeline:           input.Timeline,
	}

	token, caller := "", "anonymous"
	if viewer != nil {
		req.Name = viewer.Profile.Name
		req.Email = viewer.Profile.Email
		token, caller = viewer.Token, "authenticated"
	}
	if err := validateBooking(req); err != nil {
		return nil, err
	}

	booking, err := s.bookings.Create(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("submit booking: %w", err)
	}
	metrics.BookingsSubmittedTotal.WithLabelValues(caller).Inc()
	s.logger.Info().Str("booking_id", booking.ID).Str("service_id", req.ServiceID).Str("caller", caller).Msg("booking submitted")
	return &booking, nil
}

func validateBooking(req domain.BookingRequest) error {
	var missing []string
	if req.ServiceID == "" {
		missing = append(missing, "service")
	}
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Phone == "" {
		missing = append(missing, "phone")
	}
	if req.ProjectDescription == "" {
		missing = append(missing, "project description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if !slices.Contains(domain.BudgetOptions, req.Budget) {
		return fmt.Errorf("%w: unknown budget %q", domain.ErrInvalidInput, req.Budget)
	}
	if !slices.Contains(domain.TimelineOptions, req.Timeline) {
		return fmt.Errorf("%w: unknown timeline %q", domain.ErrInvalidInput, req.Timeline)
	}
	return nil
}

// CatalogService serves the public catalog.
type CatalogService struct {
	catalog ports.CatalogAPI
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(catalog ports.CatalogAPI) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// List returns the catalog, optionally narrowed to one category. "all" and
// the empty string mean no filter; other unknown categories are rejected.
func (s *CatalogService) List(ctx context.Context, category string) ([]domain.Service, error) {
	if category != "" && category != "all" && !slices.Contains(domain.ServiceCategories, category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}
	services, err := s.catalog.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (s *CatalogService) BySlug(ctx context.Context, slug string) (*domain.Service, error) {
	svc, err := s.catalog.BySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("service %q: %w", slug, err)
	}
	return &svc, nil
}
