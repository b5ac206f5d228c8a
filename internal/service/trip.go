package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"busline/internal/domain"
	"busline/internal/repository"
)

// TripService handles catalog management: routes, buses, trips and trip
// status transitions (operator side).
type TripService struct {
	tripRepo  repository.TripRepository
	routeRepo repository.RouteRepository
	busRepo   repository.BusRepository
}

// NewTripService creates a new TripService.
func NewTripService(
	tripRepo repository.TripRepository,
	routeRepo repository.RouteRepository,
	busRepo repository.BusRepository,
) *TripService {
	return &TripService{
		tripRepo:  tripRepo,
		routeRepo: routeRepo,
		busRepo:   busRepo,
	}
}

// CreateRouteRequest contains the parameters for creating a route.
type CreateRouteRequest struct {
	OriginCity      string
	DestinationCity string
	DistanceKm      float64
}

// CreateRoute registers a new route between two cities.
func (s *TripService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*domain.Route, error) {
	origin := strings.TrimSpace(req.OriginCity)
	destination := strings.TrimSpace(req.DestinationCity)
	if origin == "" || destination == "" || origin == destination {
		return nil, ErrInvalidRoute
	}

	route := &domain.Route{
		ID:              uuid.New().String(),
		OriginCity:      origin,
		DestinationCity: destination,
		DistanceKm:      req.DistanceKm,
		CreatedAt:       time.Now(),
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	return route, nil
}

// CreateBusRequest contains the parameters for registering a bus.
type CreateBusRequest struct {
	PlateNumber string
	Capacity    int
	Amenities   []string
}

// CreateBus registers a new bus in the fleet.
func (s *TripService) CreateBus(ctx context.Context, req CreateBusRequest) (*domain.Bus, error) {
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	bus := &domain.Bus{
		ID:          uuid.New().String(),
		PlateNumber: strings.TrimSpace(req.PlateNumber),
		Capacity:    req.Capacity,
		Amenities:   req.Amenities,
		CreatedAt:   time.Now(),
	}

	if err := s.busRepo.Create(ctx, bus); err != nil {
		return nil, err
	}

	return bus, nil
}

// CreateTripRequest contains the parameters for scheduling a trip.
type CreateTripRequest struct {
	RouteID       string
	BusID         string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         float64
}

// CreateTrip schedules a new trip. The bus capacity is snapshotted onto
// the trip so later fleet changes never affect seats already sold.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if !req.DepartureTime.Before(req.ArrivalTime) {
		return nil, ErrInvalidSchedule
	}

	if _, err := s.routeRepo.GetByID(ctx, req.RouteID); err != nil {
		return nil, err
	}

	bus, err := s.busRepo.GetByID(ctx, req.BusID)
	if err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		ID:            uuid.New().String(),
		RouteID:       req.RouteID,
		BusID:         req.BusID,
		Capacity:      bus.Capacity,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         req.Price,
		Status:        domain.TripStatusScheduled,
		CreatedAt:     time.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	return s.tripRepo.GetByID(ctx, tripID)
}

// legalTripTransitions holds the allowed trip status changes.
var legalTripTransitions = map[domain.TripStatus][]domain.TripStatus{
	domain.TripStatusScheduled: {domain.TripStatusDeparted, domain.TripStatusCancelled},
	domain.TripStatusDeparted:  {domain.TripStatusArrived},
}

// UpdateTripStatus applies an operator-initiated status transition.
func (s *TripService) UpdateTripStatus(ctx context.Context, tripID string, status domain.TripStatus) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	legal := false
	for _, next := range legalTripTransitions[trip.Status] {
		if next == status {
			legal = true
			break
		}
	}
	if !legal {
		return nil, ErrInvalidTripTransition
	}

	if err := s.tripRepo.UpdateStatus(ctx, tripID, status); err != nil {
		return nil, err
	}

	trip.Status = status
	return trip, nil
}
