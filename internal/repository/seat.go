package repository

import (
	"context"

	"busline/internal/domain"
)

// SeatCommitmentRepository defines the persistence operations for seat
// commitments. Only the seat ledger service may call the mutating methods.
type SeatCommitmentRepository interface {
	// CreateBatch inserts all commitments in a single statement. Returns
	// ErrSeatTaken when the active-seat uniqueness constraint is violated.
	CreateBatch(ctx context.Context, commitments []*domain.SeatCommitment) error

	// OccupiedSeats returns the seat numbers of all non-released
	// commitments for the trip.
	OccupiedSeats(ctx context.Context, tripID string) ([]int, error)

	// ReleaseByBooking marks all of a booking's active commitments as
	// released. Releasing an already-released booking is a no-op.
	ReleaseByBooking(ctx context.Context, bookingID string) error

	// GetByBooking returns all commitments (active and released) owned by
	// the booking, ordered by seat number.
	GetByBooking(ctx context.Context, bookingID string) ([]domain.SeatCommitment, error)
}
