package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// BookingClient implements ports.BookingAPI.
type BookingClient struct {
	c *Client
}

var _ ports.BookingAPI = (*BookingClient)(nil)

func NewBookingClient(c *Client) *BookingClient {
	return &BookingClient{c: c}
}

// Create calls POST /api/bookings. An empty token submits anonymously.
func (b *BookingClient) Create(ctx context.Context, token string, req domain.BookingRequest) (domain.Booking, error) {
	var out domain.Booking
	if err := b.c.doJSON(ctx, "bookings_create", http.MethodPost, "/api/bookings", token, req, &out); err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (b *BookingClient) Mine(ctx context.Context, token string) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := b.c.doJSON(ctx, "bookings_mine", http.MethodGet, "/api/bookings/my-bookings", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BookingClient) All(ctx context.Context, token string) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := b.c.doJSON(ctx, "bookings_all", http.MethodGet, "/api/bookings", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BookingClient) Stats(ctx context.Context, token string) (domain.BookingStats, error) {
	var out domain.BookingStats
	if err := b.c.doJSON(ctx, "bookings_stats", http.MethodGet, "/api/bookings/stats", token, nil, &out); err != nil {
		return domain.BookingStats{}, err
	}
	return out, nil
}

func (b *BookingClient) Update(ctx context.Context, token, id string, update domain.BookingUpdate) (domain.Booking, error) {
	var out domain.Booking
	path := "/api/bookings/" + url.PathEscape(id)
	if err := b.c.doJSON(ctx, "bookings_update", http.MethodPut, path, token, update, &out); err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (b *BookingClient) Delete(ctx context.Context, token, id string) error {
	path := "/api/bookings/" + url.PathEscape(id)
	return b.c.doJSON(ctx, "bookings_delete", http.MethodDelete, path, token, nil, nil)
}
