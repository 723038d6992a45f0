package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

const recentLimit = 5

var (
	adminNavigation = []ports.NavItem{
		{Path: "/dashboard", Label: "Overview"},
		{Path: "/dashboard/bookings", Label: "Bookings"},
		{Path: "/dashboard/services", Label: "Services"},
		{Path: "/dashboard/users", Label: "Users"},
	}
	userNavigation = []ports.NavItem{
		{Path: "/dashboard", Label: "Overview"},
		{Path: "/dashboard/stats", Label: "Statistics"},
		{Path: "/dashboard/orders", Label: "Orders"},
		{Path: "/dashboard/payments", Label: "Payments"},
	}
)

// DashboardService builds the dashboard views from live API data. It keeps
// no state between calls.
type DashboardService struct {
	bookings ports.BookingAPI
	catalog  ports.CatalogAPI
	users    ports.UserAPI
	logger   zerolog.Logger
}

var _ ports.DashboardService = (*DashboardService)(nil)

func NewDashboardService(bookings ports.BookingAPI, catalog ports.CatalogAPI, users ports.UserAPI, logger zerolog.Logger) *DashboardService {
	return &DashboardService{bookings: bookings, catalog: catalog, users: users, logger: logger}
}

func (s *DashboardService) Layout(viewer ports.Viewer) ports.LayoutView {
	nav := userNavigation
	if viewer.Profile.IsAdmin() {
		nav = adminNavigation
	}
	return ports.LayoutView{User: viewer.Profile, Navigation: slices.Clone(nav)}
}

// Overview is the landing page. Admins get the booking aggregate and the
// catalog size, fetched concurrently; each result is applied on its own so a
// catalog failure only drops the count.
func (s *DashboardService) Overview(ctx context.Context, viewer ports.Viewer) (*ports.OverviewView, error) {
	if !viewer.Profile.IsAdmin() {
		bookings, err := s.bookings.Mine(ctx, viewer.Token)
		if err != nil {
			return nil, fmt.Errorf("overview: %w", err)
		}
		return &ports.OverviewView{Role: viewer.Profile.Role, User: summarize(bookings)}, nil
	}

	var (
		g        errgroup.Group
		stats    domain.BookingStats
		services []domain.Service
		svcErr   error
	)
	g.Go(func() error {
		var err error
		stats, err = s.bookings.Stats(ctx, viewer.Token)
		return err
	})
	g.Go(func() error {
		services, svcErr = s.catalog.List(ctx, "")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	view := &ports.OverviewView{Role: viewer.Profile.Role, Admin: &stats}
	if svcErr != nil {
		s.logger.Warn().Err(svcErr).Msg("overview: catalog unavailable")
	} else {
		n := len(services)
		view.Services = &n
	}
	return view, nil
}

func (s *DashboardService) Orders(ctx context.Context, viewer ports.Viewer, filter string) (*ports.BookingListView, error) {
	bookings, err := s.bookings.Mine(ctx, viewer.Token)
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	return bookingList(bookings, filter), nil
}

func (s *DashboardService) Payments(ctx context.Context, viewer ports.Viewer) (*ports.PaymentsView, error) {
	bookings, err := s.bookings.Mine(ctx, viewer.Token)
	if err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}

	view := &ports.PaymentsView{
		Payments: make([]ports.PaymentRow, 0, len(bookings)),
		Paid:     []ports.PaymentRow{},
	}
	for _, b := range newestFirst(bookings) {
		row := ports.PaymentRow{
			BookingID:   b.ID,
			ServiceName: b.ServiceName,
			Amount:      b.ServicePrice,
			Status:      b.Status.PaymentStatus(),
			CreatedAt:   b.CreatedAt,
		}
		view.Payments = append(view.Payments, row)
		switch {
		case row.Status == domain.PaymentPaid:
			view.TotalPaid += b.ServicePrice
			view.Paid = append(view.Paid, row)
		case b.Status.Outstanding():
			view.TotalPending += b.ServicePrice
		}
	}
	return view, nil
}

func (s *DashboardService) Stats(ctx context.Context, viewer ports.Viewer) (*ports.StatsView, error) {
	bookings, err := s.bookings.Mine(ctx, viewer.Token)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	counts := domain.CountByStatus(bookings)
	view := &ports.StatsView{
		Total:    len(bookings),
		Statuses: make([]ports.StatusShare, 0, len(domain.BookingStatuses)),
		Recent:   recent(bookings),
	}
	for _, st := range domain.BookingStatuses {
		share := ports.StatusShare{Status: st, Count: counts[st]}
		if view.Total > 0 {
			share.Percent = math.Round(float64(counts[st])/float64(view.Total)*1000) / 10
		}
		view.Statuses = append(view.Statuses, share)
	}
	view.TotalSpent = spent(bookings)
	if paid := counts[domain.BookingCompleted]; paid > 0 {
		view.AverageOrderValue = view.TotalSpent / float64(paid)
	}
	return view, nil
}

func (s *DashboardService) AdminBookings(ctx context.Context, viewer ports.Viewer, filter string) (*ports.BookingListView, error) {
	bookings, err := s.bookings.All(ctx, viewer.Token)
	if err != nil {
		return nil, fmt.Errorf("admin bookings: %w", err)
	}
	return bookingList(bookings, filter), nil
}

// UpdateBooking changes status and/or admin notes, then re-fetches the list.
func (s *DashboardService) UpdateBooking(ctx context.Context, viewer ports.Viewer, id string, update domain.BookingUpdate) (*ports.BookingListView, error) {
	if update.Status == nil && update.AdminNotes == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *update.Status)
	}
	if _, err := s.bookings.Update(ctx, viewer.Token, id, update); err != nil {
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}
	s.logger.Info().Str("booking_id", id).Str("admin_id", viewer.Profile.ID).Msg("booking updated")
	return s.AdminBookings(ctx, viewer, "all")
}

func (s *DashboardService) DeleteBooking(ctx context.Context, viewer ports.Viewer, id string) (*ports.BookingListView, error) {
	if err := s.bookings.Delete(ctx, viewer.Token, id); err != nil {
		return nil, fmt.Errorf("delete booking %s: %w", id, err)
	}
	s.logger.Info().Str("booking_id", id).Str("admin_id", viewer.Profile.ID).Msg("booking deleted")
	return s.AdminBookings(ctx, viewer, "all")
}

func (s *DashboardService) AdminServices(ctx context.Context, viewer ports.Viewer) (*ports.ServiceListView, error) {
	services, err := s.catalog.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("admin services: %w", err)
	}
	return &ports.ServiceListView{Services: services}, nil
}

// SaveService creates the service when id is empty and updates it otherwise.
func (s *DashboardService) SaveService(ctx context.Context, viewer ports.Viewer, id string, input ports.ServiceInput) (*ports.ServiceListView, error) {
	svc, err := serviceFromInput(input)
	if err != nil {
		return nil, err
	}

	if id == "" {
		created, err := s.catalog.Create(ctx, viewer.Token, svc)
		if err != nil {
			return nil, fmt.Errorf("create service: %w", err)
		}
		s.logger.Info().Str("service_id", created.ID).Str("slug", created.Slug).Msg("service created")
	} else {
		if _, err := s.catalog.Update(ctx, viewer.Token, id, svc); err != nil {
			return nil, fmt.Errorf("update service %s: %w", id, err)
		}
		s.logger.Info().Str("service_id", id).Msg("service updated")
	}
	return s.AdminServices(ctx, viewer)
}

func (s *DashboardService) DeleteService(ctx context.Context, viewer ports.Viewer, id string) (*ports.ServiceListView, error) {
	if err := s.catalog.Delete(ctx, viewer.Token, id); err != nil {
		return nil, fmt.Errorf("delete service %s: %w", id, err)
	}
	s.logger.Info().Str("service_id", id).Msg("service deleted")
	return s.AdminServices(ctx, viewer)
}

func (s *DashboardService) AdminUsers(ctx context.Context, viewer ports.Viewer, filter string) (*ports.UserListView, error) {
	users, err := s.users.List(ctx, viewer.Token)
	if err != nil {
		return nil, fmt.Errorf("admin users: %w", err)
	}

	if filter == "" {
		filter = "all"
	}
	view := &ports.UserListView{Filter: filter, Items: make([]domain.ManagedUser, 0, len(users))}
	for _, u := range users {
		if u.Role == domain.RoleAdmin {
			view.Admins++
		} else {
			view.Users++
		}
		if filter == "all" || string(u.Role) == filter {
			view.Items = append(view.Items, u)
		}
	}
	return view, nil
}

// UpdateUser edits another account. Admins cannot change their own role.
func (s *DashboardService) UpdateUser(ctx context.Context, viewer ports.Viewer, id string, update ports.UserUpdate) (*ports.UserListView, error) {
	update.Name = strings.TrimSpace(update.Name)
	update.Email = strings.TrimSpace(update.Email)
	if update.Name == "" || update.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	if !update.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, update.Role)
	}
	if id == viewer.Profile.ID && update.Role != viewer.Profile.Role {
		return nil, domain.ErrOwnRole
	}

	if _, err := s.users.Update(ctx, viewer.Token, id, update); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	s.logger.Info().Str("user_id", id).Str("role", string(update.Role)).Msg("user updated")
	return s.AdminUsers(ctx, viewer, "all")
}

func (s *DashboardService) DeleteUser(ctx context.Context, viewer ports.Viewer, id string) (*ports.UserListView, error) {
	if id == viewer.Profile.ID {
		return nil, domain.ErrDeleteSelf
	}
	if err := s.users.Delete(ctx, viewer.Token, id); err != nil {
		return nil, fmt.Errorf("delete user %s: %w", id, err)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return s.AdminUsers(ctx, viewer, "all")
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func summarize(bookings []domain.Booking) *ports.UserOverview {
	counts := domain.CountByStatus(bookings)
	return &ports.UserOverview{
		TotalBookings:     len(bookings),
		PendingBookings:   counts[domain.BookingPending],
		CompletedBookings: counts[domain.BookingCompleted],
		TotalSpent:        spent(bookings),
		Recent:            recent(bookings),
	}
}

func bookingList(bookings []domain.Booking, filter string) *ports.BookingListView {
	if filter == "" {
		filter = "all"
	}
	counts := map[string]int{"all": len(bookings)}
	for st, n := range domain.CountByStatus(bookings) {
		counts[string(st)] = n
	}
	return &ports.BookingListView{
		Filter:   filter,
		Counts:   counts,
		Bookings: newestFirst(domain.FilterByStatus(bookings, filter)),
	}
}

// spent sums the price of completed bookings.
func spent(bookings []domain.Booking) float64 {
	var total float64
	for _, b := range bookings {
		if b.Status == domain.BookingCompleted {
			total += b.ServicePrice
		}
	}
	return total
}

func newestFirst(bookings []domain.Booking) []domain.Booking {
	out := slices.Clone(bookings)
	slices.SortStableFunc(out, func(a, b domain.Booking) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func recent(bookings []domain.Booking) []domain.Booking {
	sorted := newestFirst(bookings)
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	return sorted
}

func serviceFromInput(input ports.ServiceInput) (domain.Service, error) {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return domain.Service{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case strings.TrimSpace(input.Description) == "":
		return domain.Service{}, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	case !slices.Contains(domain.ServiceCategories, input.Category):
		return domain.Service{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, input.Category)
	case input.Price <= 0:
		return domain.Service{}, fmt.Errorf("%w: price must be greater than 0", domain.ErrInvalidInput)
	}

	slug := domain.Slugify(input.Slug)
	if slug == "" {
		slug = domain.Slugify(name)
	}
	delivery := strings.TrimSpace(input.DeliveryTime)
	if delivery == "" {
		delivery = domain.DefaultDeliveryTime
	}
	return domain.Service{
		Name:            name,
		Slug:            slug,
		Description:     strings.TrimSpace(input.Description),
		FullDescription: strings.TrimSpace(input.FullDescription),
		Category:        input.Category,
		Price:           input.Price,
		DeliveryTime:    delivery,
		Features:        domain.SplitList(input.Features),
		Tags:            domain.SplitList(input.Tags),
	}, nil
}
