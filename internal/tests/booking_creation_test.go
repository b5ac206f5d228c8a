package tests

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"busline/internal/domain"
	"busline/internal/repository"
	"busline/internal/service"
)

// ──────────────────────────────────────────────
// 1. BOOKING CREATION
// ──────────────────────────────────────────────

var referencePattern = regexp.MustCompile(`^BUS-\d{8}-[0-9A-F]{6}$`)

func TestBookingCreation_ValidInput_Succeeds(t *testing.T) {
	t.Parallel()

	h := newHarness(false)
	trip := h.addScheduledTrip(40, 25.0)

	booking, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     trip.ID,
		Seats:      seats(seat(3, "Alice Wanjiru"), seat(4, "Brian Otieno")),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected status PENDING, got %s", booking.Status)
	}
	if !referencePattern.MatchString(booking.Reference) {
		t.Errorf("reference %q does not match expected format", booking.Reference)
	}
	if booking.TotalAmount != 50.0 || booking.FinalAmount != 50.0 {
		t.Errorf("expected total and final 50.0, got %v and %v", booking.TotalAmount, booking.FinalAmount)
	}
	if len(booking.Seats) != 2 {
		t.Fatalf("expected 2 seats on booking, got %d", len(booking.Seats))
	}

	if h.seatRepo.ActiveCount(trip.ID) != 2 {
		t.Errorf("expected 2 active commitments, got %d", h.seatRepo.ActiveCount(trip.ID))
	}
	if stored := h.bookingRepo.GetBooking(booking.ID); stored == nil {
		t.Error("expected booking to be persisted")
	}
}

func TestBookingCreation_RoundTrip_Get(t *testing.T) {
	t.Parallel()

	h := newHarness(false)
	trip := h.addScheduledTrip(40, 10.0)

	created, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     trip.ID,
		Seats:      seats(seat(7, "Carol Njeri")),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := h.bookings.GetBooking(context.Background(), created.ID, "customer-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if got.Reference != created.Reference {
		t.Errorf("expected reference %s, got %s", created.Reference, got.Reference)
	}
	if len(got.Seats) != 1 || got.Seats[0].SeatNumber != 7 {
		t.Errorf("expected seat 7 on fetched booking, got %+v", got.Seats)
	}

	// Owner scoping: another customer cannot see the booking.
	if _, err := h.bookings.GetBooking(context.Background(), created.ID, "customer-2"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign customer, got %v", err)
	}
}

func TestBookingCreation_TripNotBookable_Fails(t *testing.T) {
	t.Parallel()

	statuses := []domain.TripStatus{
		domain.TripStatusDeparted,
		domain.TripStatusArrived,
		domain.TripStatusCancelled,
	}

	for _, status := range statuses {
		status := status
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()

			h := newHarness(false)
			trip := h.addScheduledTrip(40, 25.0)
			trip.Status = status

			_, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
				CustomerID: "customer-1",
				TripID:     trip.ID,
				Seats:      seats(seat(1, "Alice Wanjiru")),
			})
			if !errors.Is(err, service.ErrTripNotBookable) {
				t.Errorf("expected ErrTripNotBookable, got %v", err)
			}
		})
	}
}

func TestBookingCreation_UnknownTrip_Fails(t *testing.T) {
	t.Parallel()

	h := newHarness(false)

	_, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     "missing-trip",
		Seats:      seats(seat(1, "Alice Wanjiru")),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingCreation_InvalidSeatSelections_Fail(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		seats []service.SeatSelection
	}{
		{name: "empty selection", seats: nil},
		{name: "seat zero", seats: seats(seat(0, "Alice Wanjiru"))},
		{name: "seat beyond capacity", seats: seats(seat(41, "Alice Wanjiru"))},
		{name: "duplicate seat", seats: seats(seat(5, "Alice Wanjiru"), seat(5, "Brian Otieno"))},
		{name: "blank passenger name", seats: seats(seat(5, "   "))},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(false)
			trip := h.addScheduledTrip(40, 25.0)

			_, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
				CustomerID: "customer-1",
				TripID:     trip.ID,
				Seats:      tc.seats,
			})
			if !errors.Is(err, service.ErrInvalidSeatSelection) {
				t.Errorf("expected ErrInvalidSeatSelection, got %v", err)
			}
			if h.seatRepo.ActiveCount(trip.ID) != 0 {
				t.Error("expected no seats reserved for invalid selection")
			}
		})
	}
}

func TestBookingCreation_PercentagePromo_DiscountsTotal(t *testing.T) {
	t.Parallel()

	h := newHarness(false)
	trip := h.addScheduledTrip(40, 25.0)

	h.promoRepo.AddPromotion(&domain.Promotion{
		ID:       "promo-1",
		Code:     "SAVE20",
		Type:     domain.PromotionTypePercentage,
		Value:    20,
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(time.Hour),
		Active:   true,
	})

	booking, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     trip.ID,
		Seats: seats(
			seat(1, "Alice Wanjiru"), seat(2, "Brian Otieno"),
			seat(3, "Carol Njeri"), seat(4, "David Kamau"),
		),
		PromoCode: "SAVE20",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if booking.TotalAmount != 100.0 {
		t.Errorf("expected total 100.0, got %v", booking.TotalAmount)
	}
	if booking.DiscountAmount != 20.0 {
		t.Errorf("expected discount 20.0, got %v", booking.DiscountAmount)
	}
	if booking.FinalAmount != 80.0 {
		t.Errorf("expected final 80.0, got %v", booking.FinalAmount)
	}

	if promo := h.promoRepo.GetPromotion("promo-1"); promo.UsageCount != 1 {
		t.Errorf("expected usage count 1, got %d", promo.UsageCount)
	}
}

func TestBookingCreation_FixedPromo_NeverNegative(t *testing.T) {
	t.Parallel()

	h := newHarness(false)
	trip := h.addScheduledTrip(40, 25.0)

	h.promoRepo.AddPromotion(&domain.Promotion{
		ID:       "promo-big",
		Code:     "HUGE",
		Type:     domain.PromotionTypeFixedAmount,
		Value:    500,
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(time.Hour),
		Active:   true,
	})

	booking, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     trip.ID,
		Seats:      seats(seat(1, "Alice Wanjiru")),
		PromoCode:  "HUGE",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if booking.DiscountAmount != 25.0 {
		t.Errorf("expected discount clamped to 25.0, got %v", booking.DiscountAmount)
	}
	if booking.FinalAmount != 0.0 {
		t.Errorf("expected final 0.0, got %v", booking.FinalAmount)
	}
}

func TestBookingCreation_PersistenceFailure_LeavesNoPartialState(t *testing.T) {
	t.Parallel()

	h := newHarness(false)
	trip := h.addScheduledTrip(40, 25.0)
	h.bookingRepo.CreateError = errors.New("storage down")

	_, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     trip.ID,
		Seats:      seats(seat(1, "Alice Wanjiru"), seat(2, "Brian Otieno")),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if h.seatRepo.ActiveCount(trip.ID) != 0 {
		t.Errorf("expected no seat commitments after rollback, got %d", h.seatRepo.ActiveCount(trip.ID))
	}
	if h.bookingRepo.Count() != 0 {
		t.Errorf("expected no bookings after rollback, got %d", h.bookingRepo.Count())
	}
}

func TestBookingCreation_DuplicateReference_Regenerates(t *testing.T) {
	t.Parallel()

	h := newHarness(false)
	trip := h.addScheduledTrip(40, 25.0)
	h.bookingRepo.CreateErrorOnce = repository.ErrDuplicateReference

	booking, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     trip.ID,
		Seats:      seats(seat(1, "Alice Wanjiru")),
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got: %v", err)
	}

	if h.txManager.ExecuteCallCount != 2 {
		t.Errorf("expected 2 transaction attempts, got %d", h.txManager.ExecuteCallCount)
	}
	if h.seatRepo.ActiveCount(trip.ID) != 1 {
		t.Errorf("expected exactly 1 active commitment after retry, got %d", h.seatRepo.ActiveCount(trip.ID))
	}
	if booking.Reference == "" {
		t.Error("expected reference to be set")
	}
}

func TestBookingCreation_TripLockHeld_StillSucceeds(t *testing.T) {
	t.Parallel()

	h := newHarness(false)
	trip := h.addScheduledTrip(40, 25.0)
	h.lockStore.AlwaysHeld = true

	_, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     trip.ID,
		Seats:      seats(seat(1, "Alice Wanjiru")),
	})
	if err != nil {
		t.Fatalf("lock contention must not block reservation, got: %v", err)
	}
}
