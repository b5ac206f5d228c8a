package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusRefunded  BookingStatus = "REFUNDED"
)

// SeatCommitment binds one seat on one trip to one booking. For a given
// trip a seat number appears in at most one non-released commitment; the
// storage layer enforces this with a partial unique index.
type SeatCommitment struct {
	ID            string
	TripID        string
	BookingID     string
	SeatNumber    int
	PassengerName string
	Released      bool
	CreatedAt     time.Time
	ReleasedAt    time.Time
}

// Booking represents a purchase intent for a set of seats on one trip.
// Bookings are never deleted; cancellation and refund are status changes.
type Booking struct {
	ID             string
	Reference      string
	CustomerID     string
	TripID         string
	Seats          []SeatCommitment
	TotalAmount    float64
	DiscountAmount float64
	FinalAmount    float64
	RefundAmount   float64
	Status         BookingStatus
	PaymentRef     string
	PromotionID    string
	CreatedAt      time.Time
}

// SeatNumbers returns the seat numbers held by the booking, in order.
func (b *Booking) SeatNumbers() []int {
	numbers := make([]int, len(b.Seats))
	for i, s := range b.Seats {
		numbers[i] = s.SeatNumber
	}
	return numbers
}
