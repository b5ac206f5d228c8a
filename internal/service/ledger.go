package service

import (
	"context"
	"errors"
	"time"

	"busline/internal/domain"
	"busline/internal/redis"
	"busline/internal/repository"
)

const tripLockTTL = 5 * time.Second

// SeatLedger is the single source of truth for seat occupancy per trip and
// the only component that creates or releases seat commitments.
//
// The no-double-booking guarantee comes from the storage layer: a partial
// unique index over (trip_id, seat_number) for non-released commitments.
// The per-trip redis lock only narrows the check-then-insert window so that
// most conflicts are detected by the in-transaction read and reported with
// exact seat numbers; losing the lock never blocks a reservation.
type SeatLedger struct {
	seatRepo   repository.SeatCommitmentRepository
	lockStore  redis.LockStoreInterface
	cacheStore redis.CacheStoreInterface
}

// NewSeatLedger creates a new SeatLedger.
func NewSeatLedger(
	seatRepo repository.SeatCommitmentRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
) *SeatLedger {
	return &SeatLedger{
		seatRepo:   seatRepo,
		lockStore:  lockStore,
		cacheStore: cacheStore,
	}
}

// LockTrip acquires the per-trip reservation lock and returns its release
// function. When the lock is held elsewhere the returned release is a no-op
// and reservation proceeds anyway; the unique constraint decides the race.
func (l *SeatLedger) LockTrip(ctx context.Context, tripID string) (func(), error) {
	if l.lockStore == nil {
		return func() {}, nil
	}

	locked, err := l.lockStore.AcquireTripLock(ctx, tripID, tripLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return func() {}, nil
	}

	return func() {
		_ = l.lockStore.ReleaseTripLock(context.Background(), tripID)
	}, nil
}

// ReserveIn performs the all-or-nothing seat reservation inside the
// caller's transaction scope. Either every commitment is inserted or the
// transaction is poisoned by the returned error.
//
// A conflict detected by the in-transaction read is returned as
// *repository.SeatConflictError naming the seats. A conflict detected by
// the unique constraint (a concurrent commit between read and insert)
// surfaces as repository.ErrSeatTaken; the caller must roll back and may
// use ConflictingSeats to name them.
func (l *SeatLedger) ReserveIn(ctx context.Context, seats repository.SeatCommitmentRepository, tripID string, commitments []*domain.SeatCommitment) error {
	occupied, err := seats.OccupiedSeats(ctx, tripID)
	if err != nil {
		return err
	}

	taken := make(map[int]bool, len(occupied))
	for _, n := range occupied {
		taken[n] = true
	}

	var conflicts []int
	for _, c := range commitments {
		if taken[c.SeatNumber] {
			conflicts = append(conflicts, c.SeatNumber)
		}
	}
	if len(conflicts) > 0 {
		return &repository.SeatConflictError{TripID: tripID, Seats: conflicts}
	}

	return seats.CreateBatch(ctx, commitments)
}

// ReleaseIn marks all of a booking's active commitments as released inside
// the caller's transaction scope. Idempotent.
func (l *SeatLedger) ReleaseIn(ctx context.Context, seats repository.SeatCommitmentRepository, bookingID string) error {
	return seats.ReleaseByBooking(ctx, bookingID)
}

// ReleaseSeats releases a booking's seats outside any caller transaction
// and invalidates the trip's availability cache. Idempotent.
func (l *SeatLedger) ReleaseSeats(ctx context.Context, tripID, bookingID string) error {
	if err := l.seatRepo.ReleaseByBooking(ctx, bookingID); err != nil {
		return err
	}
	l.InvalidateAvailability(ctx, tripID)
	return nil
}

// OccupiedSeats returns a snapshot of the seat numbers currently committed
// on the trip. It never omits a seat whose reservation has committed.
func (l *SeatLedger) OccupiedSeats(ctx context.Context, tripID string) ([]int, error) {
	return l.seatRepo.OccupiedSeats(ctx, tripID)
}

// AvailableCount returns capacity minus committed seats, clamped at zero.
func (l *SeatLedger) AvailableCount(ctx context.Context, tripID string, capacity int) (int, error) {
	occupied, err := l.seatRepo.OccupiedSeats(ctx, tripID)
	if err != nil {
		return 0, err
	}

	available := capacity - len(occupied)
	if available < 0 {
		available = 0
	}
	return available, nil
}

// ConflictingSeats names the requested seats currently held by another
// active booking. Used after a constraint-detected conflict, once the
// failed transaction has been rolled back.
func (l *SeatLedger) ConflictingSeats(ctx context.Context, tripID string, requested []int) ([]int, error) {
	occupied, err := l.seatRepo.OccupiedSeats(ctx, tripID)
	if err != nil {
		return nil, err
	}

	taken := make(map[int]bool, len(occupied))
	for _, n := range occupied {
		taken[n] = true
	}

	var conflicts []int
	for _, n := range requested {
		if taken[n] {
			conflicts = append(conflicts, n)
		}
	}
	return conflicts, nil
}

// InvalidateAvailability drops the trip's cached availability so the next
// search recomputes it from the ledger.
func (l *SeatLedger) InvalidateAvailability(ctx context.Context, tripID string) {
	if l.cacheStore == nil {
		return
	}
	_ = l.cacheStore.InvalidateAvailability(ctx, tripID)
}

// IsSeatConflict reports whether err represents a seat conflict, either
// read-detected or constraint-detected.
func IsSeatConflict(err error) bool {
	var conflict *repository.SeatConflictError
	return errors.As(err, &conflict) || errors.Is(err, repository.ErrSeatTaken)
}
