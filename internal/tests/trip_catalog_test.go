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
// 6. TRIP AND CATALOG MANAGEMENT
// ──────────────────────────────────────────────

type catalogHarness struct {
	tripRepo  *MockTripRepository
	routeRepo *MockRouteRepository
	busRepo   *MockBusRepository
	trips     *service.TripService
}

func newCatalogHarness() *catalogHarness {
	h := &catalogHarness{
		tripRepo:  NewMockTripRepository(),
		routeRepo: NewMockRouteRepository(),
		busRepo:   NewMockBusRepository(),
	}
	h.trips = service.NewTripService(h.tripRepo, h.routeRepo, h.busRepo)
	return h
}

func (h *catalogHarness) mustSetup(t *testing.T, capacity int) (*domain.Route, *domain.Bus) {
	t.Helper()

	route, err := h.trips.CreateRoute(context.Background(), service.CreateRouteRequest{
		OriginCity:      "Nairobi",
		DestinationCity: "Mombasa",
		DistanceKm:      485,
	})
	if err != nil {
		t.Fatalf("create route failed: %v", err)
	}

	bus, err := h.trips.CreateBus(context.Background(), service.CreateBusRequest{
		PlateNumber: "KDA 123X",
		Capacity:    capacity,
		Amenities:   []string{"wifi", "ac"},
	})
	if err != nil {
		t.Fatalf("create bus failed: %v", err)
	}

	return route, bus
}

func TestCreateTrip_SnapshotsBusCapacity(t *testing.T) {
	t.Parallel()

	h := newCatalogHarness()
	route, bus := h.mustSetup(t, 44)

	departure := time.Now().Add(48 * time.Hour)
	trip, err := h.trips.CreateTrip(context.Background(), service.CreateTripRequest{
		RouteID:       route.ID,
		BusID:         bus.ID,
		DepartureTime: departure,
		ArrivalTime:   departure.Add(7 * time.Hour),
		Price:         30,
	})
	if err != nil {
		t.Fatalf("create trip failed: %v", err)
	}

	if trip.Capacity != 44 {
		t.Errorf("expected capacity snapshot 44, got %d", trip.Capacity)
	}
	if trip.Status != domain.TripStatusScheduled {
		t.Errorf("expected SCHEDULED, got %s", trip.Status)
	}
}

func TestCreateTrip_Validation(t *testing.T) {
	t.Parallel()

	h := newCatalogHarness()
	route, bus := h.mustSetup(t, 44)
	departure := time.Now().Add(48 * time.Hour)

	testCases := []struct {
		name    string
		req     service.CreateTripRequest
		wantErr error
	}{
		{
			name: "arrival before departure",
			req: service.CreateTripRequest{
				RouteID: route.ID, BusID: bus.ID,
				DepartureTime: departure, ArrivalTime: departure.Add(-time.Hour), Price: 30,
			},
			wantErr: service.ErrInvalidSchedule,
		},
		{
			name: "non-positive price",
			req: service.CreateTripRequest{
				RouteID: route.ID, BusID: bus.ID,
				DepartureTime: departure, ArrivalTime: departure.Add(time.Hour), Price: 0,
			},
			wantErr: service.ErrInvalidPrice,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := h.trips.CreateTrip(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateRoute_SameEndpoints_Fails(t *testing.T) {
	t.Parallel()

	h := newCatalogHarness()

	_, err := h.trips.CreateRoute(context.Background(), service.CreateRouteRequest{
		OriginCity:      "Nairobi",
		DestinationCity: "Nairobi",
	})
	if !errors.Is(err, service.ErrInvalidRoute) {
		t.Errorf("expected ErrInvalidRoute, got %v", err)
	}
}

func TestCreateBus_NonPositiveCapacity_Fails(t *testing.T) {
	t.Parallel()

	h := newCatalogHarness()

	_, err := h.trips.CreateBus(context.Background(), service.CreateBusRequest{
		PlateNumber: "KDA 123X",
		Capacity:    0,
	})
	if !errors.Is(err, service.ErrInvalidCapacity) {
		t.Errorf("expected ErrInvalidCapacity, got %v", err)
	}
}

func TestUpdateTripStatus_LegalAndIllegalTransitions(t *testing.T) {
	t.Parallel()

	h := newCatalogHarness()
	route, bus := h.mustSetup(t, 44)
	departure := time.Now().Add(48 * time.Hour)

	trip, err := h.trips.CreateTrip(context.Background(), service.CreateTripRequest{
		RouteID: route.ID, BusID: bus.ID,
		DepartureTime: departure, ArrivalTime: departure.Add(7 * time.Hour), Price: 30,
	})
	if err != nil {
		t.Fatalf("create trip failed: %v", err)
	}

	// SCHEDULED -> ARRIVED skips DEPARTED and is rejected.
	if _, err := h.trips.UpdateTripStatus(context.Background(), trip.ID, domain.TripStatusArrived); !errors.Is(err, service.ErrInvalidTripTransition) {
		t.Errorf("expected ErrInvalidTripTransition, got %v", err)
	}

	updated, err := h.trips.UpdateTripStatus(context.Background(), trip.ID, domain.TripStatusDeparted)
	if err != nil {
		t.Fatalf("depart failed: %v", err)
	}
	if updated.Status != domain.TripStatusDeparted {
		t.Errorf("expected DEPARTED, got %s", updated.Status)
	}

	if _, err := h.trips.UpdateTripStatus(context.Background(), trip.ID, domain.TripStatusCancelled); !errors.Is(err, service.ErrInvalidTripTransition) {
		t.Errorf("expected ErrInvalidTripTransition for DEPARTED -> CANCELLED, got %v", err)
	}

	if _, err := h.trips.UpdateTripStatus(context.Background(), trip.ID, domain.TripStatusArrived); err != nil {
		t.Errorf("expected DEPARTED -> ARRIVED to succeed, got %v", err)
	}
}
