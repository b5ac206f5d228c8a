package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"busline/internal/domain"
	"busline/internal/repository"
)

// activeSeatConstraint is the partial unique index over
// (trip_id, seat_number) WHERE NOT released. It is the storage-level
// guarantee that a seat is held by at most one active booking.
const activeSeatConstraint = "seat_commitments_active_seat_key"

// SeatCommitmentRepository is a PostgreSQL implementation of
// repository.SeatCommitmentRepository.
type SeatCommitmentRepository struct {
	q Querier
}

// NewSeatCommitmentRepository creates a new PostgreSQL seat commitment repository.
func NewSeatCommitmentRepository(db *sql.DB) *SeatCommitmentRepository {
	return &SeatCommitmentRepository{q: db}
}

// NewSeatCommitmentRepositoryWithTx creates a seat commitment repository using a transaction.
func NewSeatCommitmentRepositoryWithTx(tx *sql.Tx) *SeatCommitmentRepository {
	return &SeatCommitmentRepository{q: tx}
}

// CreateBatch inserts all commitments in a single statement. A violation of
// the active-seat uniqueness constraint is returned as repository.ErrSeatTaken.
func (r *SeatCommitmentRepository) CreateBatch(ctx context.Context, commitments []*domain.SeatCommitment) error {
	if len(commitments) == 0 {
		return nil
	}

	query := `INSERT INTO seat_commitments (id, trip_id, booking_id, seat_number, passenger_name, released, created_at) VALUES `
	args := make([]any, 0, len(commitments)*7)
	for i, c := range commitments {
		if i > 0 {
			query += ", "
		}
		base := i * 7
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, c.ID, c.TripID, c.BookingID, c.SeatNumber, c.PassengerName, c.Released, c.CreatedAt)
	}

	_, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, activeSeatConstraint) {
			return repository.ErrSeatTaken
		}
		return err
	}

	return nil
}

// OccupiedSeats returns the seat numbers of all non-released commitments
// for the trip, ordered ascending.
func (r *SeatCommitmentRepository) OccupiedSeats(ctx context.Context, tripID string) ([]int, error) {
	query := `
		SELECT seat_number FROM seat_commitments
		WHERE trip_id = $1 AND NOT released
		ORDER BY seat_number ASC
	`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		seats = append(seats, n)
	}
	return seats, rows.Err()
}

// ReleaseByBooking marks all of a booking's active commitments as released.
// Zero affected rows is not an error: release is idempotent.
func (r *SeatCommitmentRepository) ReleaseByBooking(ctx context.Context, bookingID string) error {
	query := `
		UPDATE seat_commitments
		SET released = TRUE, released_at = NOW()
		WHERE booking_id = $1 AND NOT released
	`

	_, err := r.q.ExecContext(ctx, query, bookingID)
	return err
}

// GetByBooking returns all commitments owned by the booking, ordered by
// seat number.
func (r *SeatCommitmentRepository) GetByBooking(ctx context.Context, bookingID string) ([]domain.SeatCommitment, error) {
	query := `
		SELECT id, trip_id, booking_id, seat_number, passenger_name, released, created_at, released_at
		FROM seat_commitments
		WHERE booking_id = $1
		ORDER BY seat_number ASC
	`

	rows, err := r.q.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commitments []domain.SeatCommitment
	for rows.Next() {
		var c domain.SeatCommitment
		var releasedAt sql.NullTime
		if err := rows.Scan(
			&c.ID,
			&c.TripID,
			&c.BookingID,
			&c.SeatNumber,
			&c.PassengerName,
			&c.Released,
			&c.CreatedAt,
			&releasedAt,
		); err != nil {
			return nil, err
		}
		if releasedAt.Valid {
			c.ReleasedAt = releasedAt.Time
		}
		commitments = append(commitments, c)
	}
	return commitments, rows.Err()
}
