package ports

import (
	"context"

	"github.com/monochrome/portal/internal/core/domain"
)

// BookingAPI covers the booking endpoints. token may be empty for Create.
type BookingAPI interface {
	Create(ctx context.Context, token string, req domain.BookingRequest) (domain.Booking, error)
	Mine(ctx context.Context, token string) ([]domain.Booking, error)
	All(ctx context.Context, token string) ([]domain.Booking, error)
	Stats(ctx context.Context, token string) (domain.BookingStats, error)
	Update(ctx context.Context, token, id string, update domain.BookingUpdate) (domain.Booking, error)
	Delete(ctx context.Context, token, id string) error
}

// CatalogAPI covers the service catalog endpoints. Writes require an admin token.
type CatalogAPI interface {
	List(ctx context.Context, category string) ([]domain.Service, error)
	BySlug(ctx context.Context, slug string) (domain.Service, error)
	Create(ctx context.Context, token string, svc domain.Service) (domain.Service, error)
	Update(ctx context.Context, token, id string, svc domain.Service) (domain.Service, error)
	Delete(ctx context.Context, token, id string) error
}

// UserAPI covers the admin user management endpoints.
type UserAPI interface {
	List(ctx context.Context, token string) ([]domain.ManagedUser, error)
	Update(ctx context.Context, token, id string, update UserUpdate) (domain.ManagedUser, error)
	Delete(ctx context.Context, token, id string) error
}

// UserUpdate is the admin edit form for a user.
type UserUpdate struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
