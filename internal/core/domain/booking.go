package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingContacted  BookingStatus = "contacted"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// BookingStatuses lists every status in display order.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingContacted,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Outstanding reports whether a booking in this status still has to be paid.
func (s BookingStatus) Outstanding() bool {
	return s == BookingPending || s == BookingContacted || s == BookingInProgress
}

// PaymentStatus is the payment label derived from a booking status.
type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "PAID"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentPending   PaymentStatus = "PENDING"
)

// PaymentStatus maps completed to paid, cancelled to cancelled and everything
// else to pending.
func (s BookingStatus) PaymentStatus() PaymentStatus {
	switch s {
	case BookingCompleted:
		return PaymentPaid
	case BookingCancelled:
		return PaymentCancelled
	default:
		return PaymentPending
	}
}

// Budget buckets offered by the booking form.
var BudgetOptions = []string{
	"< $5,000",
	"$5,000 - $10,000",
	"$10,000 - $25,000",
	"$25,000 - $50,000",
	"$50,000+",
	"Not sure",
}

// Timeline buckets offered by the booking form.
var TimelineOptions = []string{
	"ASAP",
	"1-2 weeks",
	"2-4 weeks",
	"1-2 months",
	"3+ months",
	"Flexible",
}

// Booking is a service request. It is owned by the marketplace API.
type Booking struct {
	ID                 string        `json:"_id"`
	ServiceID          string        `json:"serviceId"`
	ServiceName        string        `json:"serviceName"`
	ServicePrice       float64       `json:"servicePrice"`
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Phone              string        `json:"phone"`
	Company            string        `json:"company,omitempty"`
	ProjectDescription string        `json:"projectDescription"`
	Budget             string        `json:"budget"`
	Timeline           string        `json:"timeline"`
	Status             BookingStatus `json:"status"`
	AdminNotes         string        `json:"adminNotes,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// BookingStats is the admin overview aggregate served by /api/bookings/stats.
type BookingStats struct {
	Total      int       `json:"total"`
	Pending    int       `json:"pending"`
	InProgress int       `json:"inProgress"`
	Completed  int       `json:"completed"`
	Cancelled  int       `json:"cancelled"`
	Recent     []Booking `json:"recent"`
}

// BookingRequest is the payload sent to POST /api/bookings.
type BookingRequest struct {
	ServiceID          string `json:"serviceId"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Company            string `json:"company,omitempty"`
	ProjectDescription string `json:"projectDescription"`
	Budget             string `json:"budget"`
	Timeline           string `json:"timeline"`
}

// BookingUpdate carries the admin-editable fields of a booking.
type BookingUpdate struct {
	Status     *BookingStatus `json:"status,omitempty"`
	AdminNotes *string        `json:"adminNotes,omitempty"`
}

// CountByStatus tallies bookings per status.
func CountByStatus(bookings []Booking) map[BookingStatus]int {
	counts := make(map[BookingStatus]int, len(BookingStatuses))
	for _, s := range BookingStatuses {
		counts[s] = 0
	}
	for _, b := range bookings {
		counts[b.Status]++
	}
	return counts
}

// FilterByStatus returns the bookings with the given status; "all" or an
// empty filter returns the input unchanged.
func FilterByStatus(bookings []Booking, filter string) []Booking {
	if filter == "" || filter == "all" {
		return bookings
	}
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if string(b.Status) == filter {
			out = append(out, b)
		}
	}
	return out
}
