package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"busline/internal/domain"
	"busline/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// Create persists a new route.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (id, origin_city, destination_city, distance_km, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		route.ID,
		route.OriginCity,
		route.DestinationCity,
		route.DistanceKm,
		route.CreatedAt,
	)

	return err
}

// GetByID retrieves a route by ID.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	query := `
		SELECT id, origin_city, destination_city, distance_km, created_at
		FROM routes WHERE id = $1
	`

	var route domain.Route
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&route.ID,
		&route.OriginCity,
		&route.DestinationCity,
		&route.DistanceKm,
		&route.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &route, nil
}

// BusRepository is a PostgreSQL implementation of repository.BusRepository.
type BusRepository struct {
	q Querier
}

// NewBusRepository creates a new PostgreSQL bus repository.
func NewBusRepository(db *sql.DB) *BusRepository {
	return &BusRepository{q: db}
}

// Create persists a new bus.
func (r *BusRepository) Create(ctx context.Context, bus *domain.Bus) error {
	query := `
		INSERT INTO buses (id, plate_number, capacity, amenities, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		bus.ID,
		bus.PlateNumber,
		bus.Capacity,
		pq.Array(bus.Amenities),
		bus.CreatedAt,
	)

	return err
}

// GetByID retrieves a bus by ID.
func (r *BusRepository) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	query := `
		SELECT id, plate_number, capacity, amenities, created_at
		FROM buses WHERE id = $1
	`

	var bus domain.Bus
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&bus.ID,
		&bus.PlateNumber,
		&bus.Capacity,
		pq.Array(&bus.Amenities),
		&bus.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &bus, nil
}
