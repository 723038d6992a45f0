package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubBookingAPI struct {
	createFn func(ctx context.Context, token string, req domain.BookingRequest) (domain.Booking, error)
	mineFn   func(ctx context.Context, token string) ([]domain.Booking, error)
	allFn    func(ctx context.Context, token string) ([]domain.Booking, error)
	statsFn  func(ctx context.Context, token string) (domain.BookingStats, error)
	updateFn func(ctx context.Context, token, id string, update domain.BookingUpdate) (domain.Booking, error)
	deleteFn func(ctx context.Context, token, id string) error

	allCalls atomic.Int32
}

func (s *stubBookingAPI) Create(ctx context.Context, token string, req domain.BookingRequest) (domain.Booking, error) {
	return s.createFn(ctx, token, req)
}

func (s *stubBookingAPI) Mine(ctx context.Context, token string) ([]domain.Booking, error) {
	return s.mineFn(ctx, token)
}

func (s *stubBookingAPI) All(ctx context.Context, token string) ([]domain.Booking, error) {
	s.allCalls.Add(1)
	return s.allFn(ctx, token)
}

func (s *stubBookingAPI) Stats(ctx context.Context, token string) (domain.BookingStats, error) {
	return s.statsFn(ctx, token)
}

func (s *stubBookingAPI) Update(ctx context.Context, token, id string, update domain.BookingUpdate) (domain.Booking, error) {
	return s.updateFn(ctx, token, id, update)
}

func (s *stubBookingAPI) Delete(ctx context.Context, token, id string) error {
	return s.deleteFn(ctx, token, id)
}

type stubCatalogAPI struct {
	listFn   func(ctx context.Context, category string) ([]domain.Service, error)
	bySlugFn func(ctx context.Context, slug string) (domain.Service, error)
	createFn func(ctx context.Context, token string, svc domain.Service) (domain.Service, error)
	updateFn func(ctx context.Context, token, id string, svc domain.Service) (domain.Service, error)
	deleteFn func(ctx context.Context, token, id string) error
}

func (s *stubCatalogAPI) List(ctx context.Context, category string) ([]domain.Service, error) {
	return s.listFn(ctx, category)
}

func (s *stubCatalogAPI) BySlug(ctx context.Context, slug string) (domain.Service, error) {
	return s.bySlugFn(ctx, slug)
}

func (s *stubCatalogAPI) Create(ctx context.Context, token string, svc domain.Service) (domain.Service, error) {
	return s.createFn(ctx, token, svc)
}

func (s *stubCatalogAPI) Update(ctx context.Context, token, id string, svc domain.Service) (domain.Service, error) {
	return s.updateFn(ctx, token, id, svc)
}

func (s *stubCatalogAPI) Delete(ctx context.Context, token, id string) error {
	return s.deleteFn(ctx, token, id)
}

type stubUserAPI struct {
	listFn   func(ctx context.Context, token string) ([]domain.ManagedUser, error)
	updateFn func(ctx context.Context, token, id string, update ports.UserUpdate) (domain.ManagedUser, error)
	deleteFn func(ctx context.Context, token, id string) error
}

func (s *stubUserAPI) List(ctx context.Context, token string) ([]domain.ManagedUser, error) {
	return s.listFn(ctx, token)
}

func (s *stubUserAPI) Update(ctx context.Context, token, id string, update ports.UserUpdate) (domain.ManagedUser, error) {
	return s.updateFn(ctx, token, id, update)
}

func (s *stubUserAPI) Delete(ctx context.Context, token, id string) error {
	return s.deleteFn(ctx, token, id)
}

var day0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func booking(id string, status domain.BookingStatus, price float64, age int) domain.Booking {
	return domain.Booking{
		ID:           id,
		ServiceName:  "Web App",
		ServicePrice: price,
		Status:       status,
		CreatedAt:    day0.Add(-time.Duration(age) * time.Hour),
	}
}

func userViewer() ports.Viewer {
	return ports.Viewer{Token: "tok-user", Profile: sampleProfile()}
}

func adminViewer() ports.Viewer {
	return ports.Viewer{Token: "tok-admin", Profile: domain.Profile{ID: "a1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin}}
}

func myBookings() []domain.Booking {
	return []domain.Booking{
		booking("b1", domain.BookingCompleted, 1000, 5),
		booking("b2", domain.BookingPending, 500, 1),
		booking("b3", domain.BookingInProgress, 250, 3),
		booking("b4", domain.BookingCancelled, 4000, 4),
		booking("b5", domain.BookingCompleted, 3000, 2),
		booking("b6", domain.BookingContacted, 100, 6),
	}
}

func newDashboard(bookings *stubBookingAPI, catalog *stubCatalogAPI, users *stubUserAPI) *DashboardService {
	return NewDashboardService(bookings, catalog, users, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// User views
// ---------------------------------------------------------------------------

func TestDashboardService_Layout(t *testing.T) {
	s := newDashboard(nil, nil, nil)

	user := s.Layout(userViewer())
	if len(user.Navigation) != 4 || user.Navigation[1].Path != "/dashboard/stats" {
		t.Fatalf("unexpected user navigation: %+v", user.Navigation)
	}
	admin := s.Layout(adminViewer())
	if len(admin.Navigation) != 4 || admin.Navigation[3].Path != "/dashboard/users" {
		t.Fatalf("unexpected admin navigation: %+v", admin.Navigation)
	}
}

func TestDashboardService_Overview_User(t *testing.T) {
	bookings := &stubBookingAPI{mineFn: func(_ context.Context, token string) ([]domain.Booking, error) {
		if token != "tok-user" {
			t.Fatalf("expected the viewer token, got %q", token)
		}
		return myBookings(), nil
	}}
	s := newDashboard(bookings, nil, nil)

	view, err := s.Overview(context.Background(), userViewer())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if view.Admin != nil || view.User == nil {
		t.Fatalf("expected user overview only, got %+v", view)
	}
	u := view.User
	if u.TotalBookings != 6 || u.PendingBookings != 1 || u.CompletedBookings != 2 || u.TotalSpent != 4000 {
		t.Fatalf("unexpected totals: %+v", u)
	}
	if len(u.Recent) != 5 || u.Recent[0].ID != "b2" || u.Recent[4].ID != "b1" {
		t.Fatalf("expected five newest bookings, got %+v", u.Recent)
	}
}

func TestDashboardService_Overview_AdminFanOut(t *testing.T) {
	stats := domain.BookingStats{Total: 9, Pending: 2, InProgress: 3, Completed: 3, Cancelled: 1}
	bookings := &stubBookingAPI{statsFn: func(context.Context, string) (domain.BookingStats, error) {
		return stats, nil
	}}
	catalog := &stubCatalogAPI{listFn: func(context.Context, string) ([]domain.Service, error) {
		return []domain.Service{{ID: "s1"}, {ID: "s2"}}, nil
	}}
	s := newDashboard(bookings, catalog, nil)

	view, err := s.Overview(context.Background(), adminViewer())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if view.Admin == nil || view.Admin.Total != 9 || view.Services == nil || *view.Services != 2 {
		t.Fatalf("unexpected admin overview: %+v", view)
	}

	// A catalog failure drops the count but not the page.
	catalog.listFn = func(context.Context, string) ([]domain.Service, error) {
		return nil, domain.ErrBackendUnavailable
	}
	view, err = s.Overview(context.Background(), adminViewer())
	if err != nil {
		t.Fatalf("overview with catalog down: %v", err)
	}
	if view.Services != nil || view.Admin.InProgress != 3 {
		t.Fatalf("expected stats without service count, got %+v", view)
	}

	bookings.statsFn = func(context.Context, string) (domain.BookingStats, error) {
		return domain.BookingStats{}, domain.ErrBackendUnavailable
	}
	if _, err := s.Overview(context.Background(), adminViewer()); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected stats failure to surface, got %v", err)
	}
}

func TestDashboardService_Orders_Filter(t *testing.T) {
	bookings := &stubBookingAPI{mineFn: func(context.Context, string) ([]domain.Booking, error) {
		return myBookings(), nil
	}}
	s := newDashboard(bookings, nil, nil)

	view, err := s.Orders(context.Background(), userViewer(), "completed")
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if view.Filter != "completed" || len(view.Bookings) != 2 || view.Bookings[0].ID != "b5" {
		t.Fatalf("unexpected filtered orders: %+v", view)
	}
	if view.Counts["all"] != 6 || view.Counts["completed"] != 2 || view.Counts["contacted"] != 1 {
		t.Fatalf("unexpected counts: %+v", view.Counts)
	}

	all, _ := s.Orders(context.Background(), userViewer(), "")
	if all.Filter != "all" || len(all.Bookings) != 6 {
		t.Fatalf("expected unfiltered list, got %+v", all)
	}
}

func TestDashboardService_Payments(t *testing.T) {
	bookings := &stubBookingAPI{mineFn: func(context.Context, string) ([]domain.Booking, error) {
		return myBookings(), nil
	}}
	s := newDashboard(bookings, nil, nil)

	view, err := s.Payments(context.Background(), userViewer())
	if err != nil {
		t.Fatalf("payments: %v", err)
	}
	if view.TotalPaid != 4000 || view.TotalPending != 850 {
		t.Fatalf("unexpected totals: paid=%v pending=%v", view.TotalPaid, view.TotalPending)
	}
	if len(view.Payments) != 6 || len(view.Paid) != 2 {
		t.Fatalf("unexpected rows: %d payments, %d paid", len(view.Payments), len(view.Paid))
	}
	for _, row := range view.Payments {
		if row.BookingID == "b4" && row.Status != domain.PaymentCancelled {
			t.Fatalf("expected cancelled booking to be a cancelled payment, got %s", row.Status)
		}
	}
}

func TestDashboardService_Stats(t *testing.T) {
	bookings := &stubBookingAPI{mineFn: func(context.Context, string) ([]domain.Booking, error) {
		return myBookings(), nil
	}}
	s := newDashboard(bookings, nil, nil)

	view, err := s.Stats(context.Background(), userViewer())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if view.Total != 6 || view.TotalSpent != 4000 || view.AverageOrderValue != 2000 {
		t.Fatalf("unexpected stats: %+v", view)
	}
	if len(view.Statuses) != len(domain.BookingStatuses) {
		t.Fatalf("expected one share per status, got %d", len(view.Statuses))
	}
	for _, share := range view.Statuses {
		if share.Status == domain.BookingCompleted && (share.Count != 2 || share.Percent != 33.3) {
			t.Fatalf("unexpected completed share: %+v", share)
		}
	}

	bookings.mineFn = func(context.Context, string) ([]domain.Booking, error) { return nil, nil }
	empty, err := s.Stats(context.Background(), userViewer())
	if err != nil {
		t.Fatalf("empty stats: %v", err)
	}
	if empty.AverageOrderValue != 0 || empty.Statuses[0].Percent != 0 {
		t.Fatalf("expected zero shares without bookings, got %+v", empty)
	}
}

// ---------------------------------------------------------------------------
// Admin views
// ---------------------------------------------------------------------------

func TestDashboardService_UpdateBooking_RefetchesList(t *testing.T) {
	var updated domain.BookingUpdate
	bookings := &stubBookingAPI{
		allFn: func(context.Context, string) ([]domain.Booking, error) {
			return myBookings(), nil
		},
		updateFn: func(_ context.Context, token, id string, update domain.BookingUpdate) (domain.Booking, error) {
			if token != "tok-admin" || id != "b2" {
				t.Fatalf("unexpected update call: %q %q", token, id)
			}
			updated = update
			return domain.Booking{ID: id}, nil
		},
	}
	s := newDashboard(bookings, nil, nil)

	status := domain.BookingContacted
	view, err := s.UpdateBooking(context.Background(), adminViewer(), "b2", domain.BookingUpdate{Status: &status})
	if err != nil {
		t.Fatalf("update booking: %v", err)
	}
	if updated.Status == nil || *updated.Status != domain.BookingContacted {
		t.Fatalf("expected status to be forwarded, got %+v", updated)
	}
	if len(view.Bookings) != 6 || bookings.allCalls.Load() != 1 {
		t.Fatalf("expected the full list to be re-fetched once")
	}

	bad := domain.BookingStatus("archived")
	if _, err := s.UpdateBooking(context.Background(), adminViewer(), "b2", domain.BookingUpdate{Status: &bad}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := s.UpdateBooking(context.Background(), adminViewer(), "b2", domain.BookingUpdate{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}
}

func TestDashboardService_DeleteBooking_FailureSkipsRefetch(t *testing.T) {
	bookings := &stubBookingAPI{
		allFn: func(context.Context, string) ([]domain.Booking, error) { return nil, nil },
		deleteFn: func(context.Context, string, string) error {
			return &domain.APIError{Status: 404, Message: "Booking not found"}
		},
	}
	s := newDashboard(bookings, nil, nil)

	if _, err := s.DeleteBooking(context.Background(), adminViewer(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if bookings.allCalls.Load() != 0 {
		t.Fatalf("failed mutation must not re-fetch")
	}
}

func TestDashboardService_SaveService(t *testing.T) {
	var created, updated domain.Service
	catalog := &stubCatalogAPI{
		listFn: func(context.Context, string) ([]domain.Service, error) {
			return []domain.Service{{ID: "s1"}}, nil
		},
		createFn: func(_ context.Context, _ string, svc domain.Service) (domain.Service, error) {
			created = svc
			svc.ID = "s2"
			return svc, nil
		},
		updateFn: func(_ context.Context, _ string, id string, svc domain.Service) (domain.Service, error) {
			updated = svc
			return svc, nil
		},
	}
	s := newDashboard(nil, catalog, nil)

	input := ports.ServiceInput{
		Name:        "Security Audit",
		Description: "Full review",
		Category:    "security",
		Price:       2500,
		Features:    "pentest, report ,",
		Tags:        "audit",
	}
	view, err := s.SaveService(context.Background(), adminViewer(), "", input)
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if len(view.Services) != 1 {
		t.Fatalf("expected re-fetched catalog")
	}
	if created.Slug != "security-audit" || created.DeliveryTime != domain.DefaultDeliveryTime {
		t.Fatalf("expected derived slug and default delivery time, got %+v", created)
	}
	if len(created.Features) != 2 || created.Features[1] != "report" {
		t.Fatalf("unexpected features: %q", created.Features)
	}

	input.Slug = "custom-slug"
	input.DeliveryTime = "1 week"
	if _, err := s.SaveService(context.Background(), adminViewer(), "s1", input); err != nil {
		t.Fatalf("update service: %v", err)
	}
	if updated.Slug != "custom-slug" || updated.DeliveryTime != "1 week" {
		t.Fatalf("unexpected update payload: %+v", updated)
	}

	invalid := []ports.ServiceInput{
		{Description: "d", Category: "security", Price: 1},
		{Name: "n", Category: "security", Price: 1},
		{Name: "n", Description: "d", Category: "gardening", Price: 1},
		{Name: "n", Description: "d", Category: "security", Price: 0},
	}
	for i, in := range invalid {
		if _, err := s.SaveService(context.Background(), adminViewer(), "", in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestDashboardService_AdminUsers(t *testing.T) {
	users := &stubUserAPI{listFn: func(context.Context, string) ([]domain.ManagedUser, error) {
		return []domain.ManagedUser{
			{ID: "a1", Role: domain.RoleAdmin},
			{ID: "u1", Role: domain.RoleUser},
			{ID: "u2", Role: domain.RoleUser},
		}, nil
	}}
	s := newDashboard(nil, nil, users)

	view, err := s.AdminUsers(context.Background(), adminViewer(), "user")
	if err != nil {
		t.Fatalf("admin users: %v", err)
	}
	if view.Admins != 1 || view.Users != 2 || len(view.Items) != 2 {
		t.Fatalf("unexpected user list: %+v", view)
	}
}

func TestDashboardService_UpdateUser_OwnRole(t *testing.T) {
	var calls int
	users := &stubUserAPI{
		listFn: func(context.Context, string) ([]domain.ManagedUser, error) { return nil, nil },
		updateFn: func(_ context.Context, _ string, id string, update ports.UserUpdate) (domain.ManagedUser, error) {
			calls++
			return domain.ManagedUser{ID: id, Role: update.Role}, nil
		},
	}
	s := newDashboard(nil, nil, users)
	admin := adminViewer()

	_, err := s.UpdateUser(context.Background(), admin, "a1", ports.UserUpdate{Name: "Root", Email: "root@example.com", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrOwnRole) {
		t.Fatalf("expected ErrOwnRole, got %v", err)
	}
	if _, err := s.UpdateUser(context.Background(), admin, "a1", ports.UserUpdate{Name: "Root 2", Email: "root@example.com", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("editing own name must be allowed: %v", err)
	}
	if _, err := s.UpdateUser(context.Background(), admin, "u1", ports.UserUpdate{Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("promoting another user: %v", err)
	}
	if _, err := s.UpdateUser(context.Background(), admin, "u1", ports.UserUpdate{Name: "Ada", Email: "ada@example.com", Role: "owner"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected two backend updates, got %d", calls)
	}
}

func TestDashboardService_DeleteUser_Self(t *testing.T) {
	var deleted []string
	users := &stubUserAPI{
		listFn: func(context.Context, string) ([]domain.ManagedUser, error) { return nil, nil },
		deleteFn: func(_ context.Context, _ string, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	s := newDashboard(nil, nil, users)

	if _, err := s.DeleteUser(context.Background(), adminViewer(), "a1"); !errors.Is(err, domain.ErrDeleteSelf) {
		t.Fatalf("expected ErrDeleteSelf, got %v", err)
	}
	if _, err := s.DeleteUser(context.Background(), adminViewer(), "u1"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "u1" {
		t.Fatalf("unexpected deletes: %q", deleted)
	}
}
