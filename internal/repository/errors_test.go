package repository

import (
	"testing"
)

func TestSeatConflictError_SortsMessageWithoutMutating(t *testing.T) {
	t.Parallel()

	err := &SeatConflictError{TripID: "trip-1", Seats: []int{14, 3, 7}}

	got := err.Error()
	want := "seats unavailable on trip trip-1: [3 7 14]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	// The message is sorted from a copy; the slice callers hold keeps its
	// original order.
	if err.Seats[0] != 14 || err.Seats[1] != 3 || err.Seats[2] != 7 {
		t.Errorf("expected Seats unchanged, got %v", err.Seats)
	}
}
