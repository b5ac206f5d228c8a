package repository

import (
	"context"

	"busline/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking (without its seat commitments).
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByIDForCustomer retrieves a booking scoped to its owner.
	GetByIDForCustomer(ctx context.Context, id, customerID string) (*domain.Booking, error)

	// GetByID retrieves a booking regardless of owner (operator use).
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// UpdateStatusFrom transitions a booking's status only if it currently
	// has the expected status. Returns ErrNotFound when no row matched.
	UpdateStatusFrom(ctx context.Context, id string, from, to domain.BookingStatus) error

	// SetPaymentRef stores the payment gateway reference.
	SetPaymentRef(ctx context.Context, id, paymentRef string) error

	// SetRefundAmount records the refunded amount.
	SetRefundAmount(ctx context.Context, id string, amount float64) error
}
