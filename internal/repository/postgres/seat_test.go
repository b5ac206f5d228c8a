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

func newSeatRepo(t *testing.T) (*SeatCommitmentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock setup failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSeatCommitmentRepository(db), mock
}

func TestSeatCreateBatch_InsertsAllRows(t *testing.T) {
	repo, mock := newSeatRepo(t)

	now := time.Now()
	commitments := []*domain.SeatCommitment{
		{ID: "sc-1", TripID: "trip-1", BookingID: "b-1", SeatNumber: 3, PassengerName: "Alice Wanjiru", CreatedAt: now},
		{ID: "sc-2", TripID: "trip-1", BookingID: "b-1", SeatNumber: 4, PassengerName: "Brian Otieno", CreatedAt: now},
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO seat_commitments`)).
		WithArgs(
			"sc-1", "trip-1", "b-1", 3, "Alice Wanjiru", false, now,
			"sc-2", "trip-1", "b-1", 4, "Brian Otieno", false, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.CreateBatch(context.Background(), commitments); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSeatCreateBatch_ActiveSeatViolation_MapsToSeatTaken(t *testing.T) {
	repo, mock := newSeatRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO seat_commitments`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: activeSeatConstraint})

	err := repo.CreateBatch(context.Background(), []*domain.SeatCommitment{
		{ID: "sc-1", TripID: "trip-1", BookingID: "b-1", SeatNumber: 3, PassengerName: "Alice Wanjiru"},
	})
	if !errors.Is(err, repository.ErrSeatTaken) {
		t.Errorf("expected ErrSeatTaken, got %v", err)
	}
}

func TestSeatCreateBatch_OtherViolation_PassesThrough(t *testing.T) {
	repo, mock := newSeatRepo(t)

	pqErr := &pq.Error{Code: "23503", Constraint: "seat_commitments_booking_id_fkey"}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO seat_commitments`)).
		WillReturnError(pqErr)

	err := repo.CreateBatch(context.Background(), []*domain.SeatCommitment{
		{ID: "sc-1", TripID: "trip-1", BookingID: "b-1", SeatNumber: 3, PassengerName: "Alice Wanjiru"},
	})
	if errors.Is(err, repository.ErrSeatTaken) {
		t.Error("foreign key violation must not be reported as a seat conflict")
	}
	if err == nil {
		t.Error("expected error to pass through")
	}
}

func TestSeatOccupiedSeats_ScansAll(t *testing.T) {
	repo, mock := newSeatRepo(t)

	rows := sqlmock.NewRows([]string{"seat_number"}).AddRow(3).AddRow(7).AddRow(12)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT seat_number FROM seat_commitments`)).
		WithArgs("trip-1").
		WillReturnRows(rows)

	seats, err := repo.OccupiedSeats(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(seats) != 3 || seats[0] != 3 || seats[2] != 12 {
		t.Errorf("expected [3 7 12], got %v", seats)
	}
}

func TestSeatReleaseByBooking_ZeroRowsIsNotAnError(t *testing.T) {
	repo, mock := newSeatRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seat_commitments`)).
		WithArgs("b-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.ReleaseByBooking(context.Background(), "b-1"); err != nil {
		t.Errorf("release must be idempotent, got: %v", err)
	}
}

func TestSeatGetByBooking_HandlesNullReleasedAt(t *testing.T) {
	repo, mock := newSeatRepo(t)

	created := time.Now().Add(-time.Hour)
	released := time.Now()
	rows := sqlmock.NewRows([]string{"id", "trip_id", "booking_id", "seat_number", "passenger_name", "released", "created_at", "released_at"}).
		AddRow("sc-1", "trip-1", "b-1", 3, "Alice Wanjiru", false, created, nil).
		AddRow("sc-2", "trip-1", "b-1", 4, "Brian Otieno", true, created, released)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM seat_commitments`)).
		WithArgs("b-1").
		WillReturnRows(rows)

	commitments, err := repo.GetByBooking(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(commitments) != 2 {
		t.Fatalf("expected 2 commitments, got %d", len(commitments))
	}
	if !commitments[0].ReleasedAt.IsZero() {
		t.Error("expected zero ReleasedAt for active commitment")
	}
	if commitments[1].ReleasedAt.IsZero() {
		t.Error("expected ReleasedAt set for released commitment")
	}
}
