package repository

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrSeatTaken is returned when inserting a seat commitment violates
	// the per-trip uniqueness constraint.
	ErrSeatTaken = errors.New("seat already committed")

	// ErrDuplicateReference is returned when a booking reference collides
	// with an existing one.
	ErrDuplicateReference = errors.New("booking reference already exists")
)

// SeatConflictError reports the specific seats on a trip that are already
// committed to another active booking.
type SeatConflictError struct {
	TripID string
	Seats  []int
}

func (e *SeatConflictError) Error() string {
	seats := append([]int(nil), e.Seats...)
	sort.Ints(seats)
	return fmt.Sprintf("seats unavailable on trip %s: %v", e.TripID, seats)
}
