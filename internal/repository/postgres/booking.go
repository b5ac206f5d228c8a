package postgres

import (
	"context"
	"database/sql"
	"errors"

	"busline/internal/domain"
	"busline/internal/repository"
)

// referenceConstraint is the unique index on bookings.reference.
const referenceConstraint = "bookings_reference_key"

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// Create persists a new booking. Seat commitments are stored separately by
// the seat commitment repository.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, reference, customer_id, trip_id, total_amount, discount_amount, final_amount, refund_amount, status, payment_ref, promotion_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var paymentRef sql.NullString
	if booking.PaymentRef != "" {
		paymentRef = sql.NullString{String: booking.PaymentRef, Valid: true}
	}

	var promotionID sql.NullString
	if booking.PromotionID != "" {
		promotionID = sql.NullString{String: booking.PromotionID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.Reference,
		booking.CustomerID,
		booking.TripID,
		booking.TotalAmount,
		booking.DiscountAmount,
		booking.FinalAmount,
		booking.RefundAmount,
		booking.Status,
		paymentRef,
		promotionID,
		booking.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, referenceConstraint) {
			return repository.ErrDuplicateReference
		}
		return err
	}

	return nil
}

const bookingColumns = `id, reference, customer_id, trip_id, total_amount, discount_amount, final_amount, refund_amount, status, payment_ref, promotion_id, created_at`

func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var paymentRef sql.NullString
	var promotionID sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.CustomerID,
		&booking.TripID,
		&booking.TotalAmount,
		&booking.DiscountAmount,
		&booking.FinalAmount,
		&booking.RefundAmount,
		&booking.Status,
		&paymentRef,
		&promotionID,
		&booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if paymentRef.Valid {
		booking.PaymentRef = paymentRef.String
	}
	if promotionID.Valid {
		booking.PromotionID = promotionID.String
	}

	return &booking, nil
}

// GetByIDForCustomer retrieves a booking scoped to its owner.
func (r *BookingRepository) GetByIDForCustomer(ctx context.Context, id, customerID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND customer_id = $2`
	return scanBooking(r.q.QueryRowContext(ctx, query, id, customerID))
}

// GetByID retrieves a booking regardless of owner.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.q.QueryRowContext(ctx, query, id))
}

// UpdateStatusFrom transitions a booking's status only if it currently has
// the expected status. The guard lives in the WHERE clause so concurrent
// transitions cannot both apply.
func (r *BookingRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetPaymentRef stores the payment gateway reference.
func (r *BookingRepository) SetPaymentRef(ctx context.Context, id, paymentRef string) error {
	query := `UPDATE bookings SET payment_ref = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, paymentRef, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetRefundAmount records the refunded amount.
func (r *BookingRepository) SetRefundAmount(ctx context.Context, id string, amount float64) error {
	query := `UPDATE bookings SET refund_amount = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, amount, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
