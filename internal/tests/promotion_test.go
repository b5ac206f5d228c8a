package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"busline/internal/domain"
	"busline/internal/service"
)

// ──────────────────────────────────────────────
// 4. PROMOTION EVALUATION
// ──────────────────────────────────────────────

func activePromo(id, code string, promoType domain.PromotionType, value float64) *domain.Promotion {
	return &domain.Promotion{
		ID:       id,
		Code:     code,
		Type:     promoType,
		Value:    value,
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(time.Hour),
		Active:   true,
	}
}

func TestPromotionValidate_Rejections(t *testing.T) {
	t.Parallel()

	now := time.Now()

	testCases := []struct {
		name    string
		promo   *domain.Promotion
		code    string
		wantErr error
	}{
		{
			name:    "unknown code",
			promo:   nil,
			code:    "NOPE",
			wantErr: service.ErrPromotionNotFound,
		},
		{
			name: "inactive code",
			promo: &domain.Promotion{
				ID: "p1", Code: "OFF", Type: domain.PromotionTypePercentage, Value: 10,
				StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour), Active: false,
			},
			code:    "OFF",
			wantErr: service.ErrPromotionNotFound,
		},
		{
			name: "not yet started",
			promo: &domain.Promotion{
				ID: "p2", Code: "SOON", Type: domain.PromotionTypePercentage, Value: 10,
				StartsAt: now.Add(time.Hour), EndsAt: now.Add(2 * time.Hour), Active: true,
			},
			code:    "SOON",
			wantErr: service.ErrPromotionExpired,
		},
		{
			name: "already ended",
			promo: &domain.Promotion{
				ID: "p3", Code: "GONE", Type: domain.PromotionTypePercentage, Value: 10,
				StartsAt: now.Add(-2 * time.Hour), EndsAt: now.Add(-time.Hour), Active: true,
			},
			code:    "GONE",
			wantErr: service.ErrPromotionExpired,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := NewMockPromotionRepository()
			if tc.promo != nil {
				repo.AddPromotion(tc.promo)
			}
			svc := service.NewPromotionService(repo, false)

			_, err := svc.Validate(context.Background(), tc.code, time.Now())
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPromotionValidate_UsageLimit_EnforcementConfigurable(t *testing.T) {
	t.Parallel()

	exhausted := activePromo("p1", "LIMITED", domain.PromotionTypePercentage, 10)
	exhausted.UsageLimit = 5
	exhausted.UsageCount = 5

	t.Run("enforcement on rejects", func(t *testing.T) {
		t.Parallel()

		repo := NewMockPromotionRepository()
		promo := *exhausted
		repo.AddPromotion(&promo)
		svc := service.NewPromotionService(repo, true)

		_, err := svc.Validate(context.Background(), "LIMITED", time.Now())
		if !errors.Is(err, service.ErrPromotionUsageExceeded) {
			t.Errorf("expected ErrPromotionUsageExceeded, got %v", err)
		}
	})

	t.Run("enforcement off accepts", func(t *testing.T) {
		t.Parallel()

		repo := NewMockPromotionRepository()
		promo := *exhausted
		repo.AddPromotion(&promo)
		svc := service.NewPromotionService(repo, false)

		if _, err := svc.Validate(context.Background(), "LIMITED", time.Now()); err != nil {
			t.Errorf("expected no error with enforcement off, got %v", err)
		}
	})
}

func TestPromotionDiscount_Clamps(t *testing.T) {
	t.Parallel()

	svc := service.NewPromotionService(NewMockPromotionRepository(), false)

	testCases := []struct {
		name  string
		promo *domain.Promotion
		base  float64
		want  float64
	}{
		{"percentage", activePromo("p", "C", domain.PromotionTypePercentage, 20), 100, 20},
		{"percentage full", activePromo("p", "C", domain.PromotionTypePercentage, 100), 80, 80},
		{"fixed within base", activePromo("p", "C", domain.PromotionTypeFixedAmount, 15), 100, 15},
		{"fixed above base clamps", activePromo("p", "C", domain.PromotionTypeFixedAmount, 150), 100, 100},
		{"zero base", activePromo("p", "C", domain.PromotionTypePercentage, 20), 0, 0},
		{"unknown type", activePromo("p", "C", domain.PromotionType("BOGOF"), 20), 100, 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := svc.Discount(tc.promo, tc.base); got != tc.want {
				t.Errorf("expected discount %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPromotionUsageLimit_ExhaustedAcrossBookings(t *testing.T) {
	t.Parallel()

	h := newHarness(true)
	trip := h.addScheduledTrip(40, 25.0)

	promo := activePromo("p1", "ONCE", domain.PromotionTypePercentage, 10)
	promo.UsageLimit = 1
	h.promoRepo.AddPromotion(promo)

	first, err := h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-1",
		TripID:     trip.ID,
		Seats:      seats(seat(1, "Alice Wanjiru")),
		PromoCode:  "ONCE",
	})
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if first.DiscountAmount != 2.5 {
		t.Errorf("expected discount 2.5, got %v", first.DiscountAmount)
	}

	_, err = h.bookings.CreateBooking(context.Background(), service.CreateBookingRequest{
		CustomerID: "customer-2",
		TripID:     trip.ID,
		Seats:      seats(seat(2, "Brian Otieno")),
		PromoCode:  "ONCE",
	})
	if !errors.Is(err, service.ErrPromotionUsageExceeded) {
		t.Errorf("expected ErrPromotionUsageExceeded, got %v", err)
	}

	// The rejected booking left nothing behind.
	if h.seatRepo.ActiveCount(trip.ID) != 1 {
		t.Errorf("expected only first booking's seat, got %d active", h.seatRepo.ActiveCount(trip.ID))
	}
}

func TestPromotionCreate_Validation(t *testing.T) {
	t.Parallel()

	now := time.Now()

	testCases := []struct {
		name    string
		req     service.CreatePromotionRequest
		wantErr error
	}{
		{
			name: "percentage above 100",
			req: service.CreatePromotionRequest{
				Code: "P", Type: domain.PromotionTypePercentage, Value: 120,
				StartsAt: now, EndsAt: now.Add(time.Hour),
			},
			wantErr: service.ErrInvalidPromotionValue,
		},
		{
			name: "zero value",
			req: service.CreatePromotionRequest{
				Code: "P", Type: domain.PromotionTypeFixedAmount, Value: 0,
				StartsAt: now, EndsAt: now.Add(time.Hour),
			},
			wantErr: service.ErrInvalidPromotionValue,
		},
		{
			name: "unknown type",
			req: service.CreatePromotionRequest{
				Code: "P", Type: domain.PromotionType("BOGOF"), Value: 10,
				StartsAt: now, EndsAt: now.Add(time.Hour),
			},
			wantErr: service.ErrInvalidPromotionValue,
		},
		{
			name: "window ends before it starts",
			req: service.CreatePromotionRequest{
				Code: "P", Type: domain.PromotionTypePercentage, Value: 10,
				StartsAt: now.Add(time.Hour), EndsAt: now,
			},
			wantErr: service.ErrInvalidSchedule,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := service.NewPromotionService(NewMockPromotionRepository(), false)
			_, err := svc.Create(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
