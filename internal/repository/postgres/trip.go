package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"busline/internal/domain"
	"busline/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, route_id, bus_id, capacity, departure_time, arrival_time, price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.RouteID,
		trip.BusID,
		trip.Capacity,
		trip.DepartureTime,
		trip.ArrivalTime,
		trip.Price,
		trip.Status,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, route_id, bus_id, capacity, departure_time, arrival_time, price, status, created_at
		FROM trips WHERE id = $1
	`

	var trip domain.Trip
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.RouteID,
		&trip.BusID,
		&trip.Capacity,
		&trip.DepartureTime,
		&trip.ArrivalTime,
		&trip.Price,
		&trip.Status,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// Search returns scheduled trips between the given cities departing within
// [from, to), ordered by departure time ascending.
func (r *TripRepository) Search(ctx context.Context, originCity, destinationCity string, from, to time.Time) ([]*domain.TripSummary, error) {
	query := `
		SELECT t.id, t.route_id, t.bus_id, t.capacity, t.departure_time, t.arrival_time, t.price, t.status, t.created_at,
		       r.origin_city, r.destination_city
		FROM trips t
		JOIN routes r ON r.id = t.route_id
		WHERE r.origin_city = $1
		  AND r.destination_city = $2
		  AND t.departure_time >= $3
		  AND t.departure_time < $4
		  AND t.status = $5
		ORDER BY t.departure_time ASC
	`

	rows, err := r.q.QueryContext(ctx, query, originCity, destinationCity, from, to, domain.TripStatusScheduled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.TripSummary
	for rows.Next() {
		var s domain.TripSummary
		if err := rows.Scan(
			&s.Trip.ID,
			&s.Trip.RouteID,
			&s.Trip.BusID,
			&s.Trip.Capacity,
			&s.Trip.DepartureTime,
			&s.Trip.ArrivalTime,
			&s.Trip.Price,
			&s.Trip.Status,
			&s.Trip.CreatedAt,
			&s.OriginCity,
			&s.DestinationCity,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

// UpdateStatus updates the status of a trip.
func (r *TripRepository) UpdateStatus(ctx context.Context, id string, status domain.TripStatus) error {
	query := `UPDATE trips SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
