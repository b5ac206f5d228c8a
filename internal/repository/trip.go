package repository

import (
	"context"
	"time"

	"busline/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// Search returns scheduled trips between the given cities departing
	// within [from, to), ordered by departure time ascending.
	Search(ctx context.Context, originCity, destinationCity string, from, to time.Time) ([]*domain.TripSummary, error)

	// UpdateStatus updates the status of a trip.
	UpdateStatus(ctx context.Context, id string, status domain.TripStatus) error
}

// RouteRepository defines the persistence operations for routes.
type RouteRepository interface {
	Create(ctx context.Context, route *domain.Route) error
	GetByID(ctx context.Context, id string) (*domain.Route, error)
}

// BusRepository defines the persistence operations for buses.
type BusRepository interface {
	Create(ctx context.Context, bus *domain.Bus) error
	GetByID(ctx context.Context, id string) (*domain.Bus, error)
}
