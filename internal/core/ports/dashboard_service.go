package ports

import (
	"context"
	"time"

	"github.com/monochrome/portal/internal/core/domain"
)

// Viewer is the authenticated caller of a dashboard view.
type Viewer struct {
	Token   string
	Profile domain.Profile
}

// NavItem is a sidebar entry.
type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// LayoutView is the dashboard chrome: who is logged in and where they can go.
type LayoutView struct {
	User       domain.Profile `json:"user"`
	Navigation []NavItem      `json:"navigation"`
}

// UserOverview summarises the caller's own bookings.
type UserOverview struct {
	TotalBookings     int              `json:"totalBookings"`
	PendingBookings   int              `json:"pendingBookings"`
	CompletedBookings int              `json:"completedBookings"`
	TotalSpent        float64          `json:"totalSpent"`
	Recent            []domain.Booking `json:"recent"`
}

// OverviewView is the dashboard landing page. Exactly one of User and Admin
// is set. Services is the catalog size on the admin overview; it is omitted
// when the catalog could not be fetched.
type OverviewView struct {
	Role     domain.Role          `json:"role"`
	User     *UserOverview        `json:"user,omitempty"`
	Admin    *domain.BookingStats `json:"admin,omitempty"`
	Services *int                 `json:"services,omitempty"`
}

// BookingListView is a filtered booking list with per-status counts.
type BookingListView struct {
	Filter   string           `json:"filter"`
	Counts   map[string]int   `json:"counts"`
	Bookings []domain.Booking `json:"bookings"`
}

// PaymentRow is one booking seen as a payment.
type PaymentRow struct {
	BookingID   string               `json:"bookingId"`
	ServiceName string               `json:"serviceName"`
	Amount      float64              `json:"amount"`
	Status      domain.PaymentStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// PaymentsView lists payments and the paid/pending totals.
type PaymentsView struct {
	TotalPaid    float64      `json:"totalPaid"`
	TotalPending float64      `json:"totalPending"`
	Payments     []PaymentRow `json:"payments"`
	Paid         []PaymentRow `json:"paid"`
}

// StatusShare is the count and share of one status.
type StatusShare struct {
	Status  domain.BookingStatus `json:"status"`
	Count   int                  `json:"count"`
	Percent float64              `json:"percent"`
}

// StatsView is the user statistics page.
type StatsView struct {
	Total             int              `json:"total"`
	TotalSpent        float64          `json:"totalSpent"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	Statuses          []StatusShare    `json:"statuses"`
	Recent            []domain.Booking `json:"recent"`
}

// ServiceListView is the admin catalog page.
type ServiceListView struct {
	Services []domain.Service `json:"services"`
}

// UserListView is the admin user page.
type UserListView struct {
	Filter string               `json:"filter"`
	Admins int                  `json:"admins"`
	Users  int                  `json:"users"`
	Items  []domain.ManagedUser `json:"items"`
}

// ServiceInput is the admin create/edit form for a service. Features and
// Tags are comma separated.
type ServiceInput struct {
	Name            string
	Slug            string
	Description     string
	FullDescription string
	Category        string
	Price           float64
	DeliveryTime    string
	Features        string
	Tags            string
}

// DashboardService renders the role-specific dashboard views. Every call
// fetches from the marketplace API; nothing is cached between views.
type DashboardService interface {
	Layout(viewer Viewer) LayoutView
	Overview(ctx context.Context, viewer Viewer) (*OverviewView, error)
	Orders(ctx context.Context, viewer Viewer, filter string) (*BookingListView, error)
	Payments(ctx context.Context, viewer Viewer) (*PaymentsView, error)
	Stats(ctx context.Context, viewer Viewer) (*StatsView, error)

	AdminBookings(ctx context.Context, viewer Viewer, filter string) (*BookingListView, error)
	UpdateBooking(ctx context.Context, viewer Viewer, id string, update domain.BookingUpdate) (*BookingListView, error)
	DeleteBooking(ctx context.Context, viewer Viewer, id string) (*BookingListView, error)

	AdminServices(ctx context.Context, viewer Viewer) (*ServiceListView, error)
	SaveService(ctx context.Context, viewer Viewer, id string, input ServiceInput) (*ServiceListView, error)
	DeleteService(ctx context.Context, viewer Viewer, id string) (*ServiceListView, error)

	AdminUsers(ctx context.Context, viewer Viewer, filter string) (*UserListView, error)
	UpdateUser(ctx context.Context, viewer Viewer, id string, update UserUpdate) (*UserListView, error)
	DeleteUser(ctx context.Context, viewer Viewer, id string) (*UserListView, error)
}
