package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"busline/internal/domain"
	"busline/internal/repository"
)

func newBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock setup failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBookingRepository(db), mock
}

func TestBookingCreate_DuplicateReference_MapsToSentinel(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookings`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: referenceConstraint})

	err := repo.Create(context.Background(), &domain.Booking{
		ID:        "b-1",
		Reference: "BUS-20260901-AB12CD",
		Status:    domain.BookingStatusPending,
		CreatedAt: time.Now(),
	})
	if !errors.Is(err, repository.ErrDuplicateReference) {
		t.Errorf("expected ErrDuplicateReference, got %v", err)
	}
}

func TestBookingUpdateStatusFrom_GuardInWhereClause(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`)).
		WithArgs(domain.BookingStatusConfirmed, "b-1", domain.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatusFrom(context.Background(), "b-1", domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBookingUpdateStatusFrom_NoMatchingRow_NotFound(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatusFrom(context.Background(), "b-1", domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingGetByID_ScansNullableColumns(t *testing.T) {
	repo, mock := newBookingRepo(t)

	created := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "reference", "customer_id", "trip_id", "total_amount", "discount_amount",
		"final_amount", "refund_amount", "status", "payment_ref", "promotion_id", "created_at",
	}).AddRow("b-1", "BUS-20260901-AB12CD", "customer-1", "trip-1", 50.0, 0.0, 50.0, 0.0, "PENDING", nil, nil, created)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE id = $1`)).
		WithArgs("b-1").
		WillReturnRows(rows)

	booking, err := repo.GetByID(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if booking.PaymentRef != "" || booking.PromotionID != "" {
		t.Errorf("expected empty nullable fields, got %q %q", booking.PaymentRef, booking.PromotionID)
	}
	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected PENDING, got %s", booking.Status)
	}
}
