package service

import (
	"context"
	"time"

	"busline/internal/domain"
	"busline/internal/redis"
	"busline/internal/repository"
)

// AvailabilityService derives available-seat counts and per-seat status
// from the seat ledger for search results and seat maps.
type AvailabilityService struct {
	tripRepo   repository.TripRepository
	ledger     *SeatLedger
	cacheStore redis.CacheStoreInterface
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(
	tripRepo repository.TripRepository,
	ledger *SeatLedger,
	cacheStore redis.CacheStoreInterface,
) *AvailabilityService {
	return &AvailabilityService{
		tripRepo:   tripRepo,
		ledger:     ledger,
		cacheStore: cacheStore,
	}
}

// Search returns scheduled trips between the given cities departing on the
// given UTC calendar day, ordered by departure time ascending, each
// annotated with its available seat count.
func (s *AvailabilityService) Search(ctx context.Context, originCity, destinationCity string, date time.Time) ([]*domain.TripSummary, error) {
	if originCity == "" || destinationCity == "" || date.IsZero() {
		return nil, ErrInvalidSearch
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	summaries, err := s.tripRepo.Search(ctx, originCity, destinationCity, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	for _, summary := range summaries {
		available, err := s.availableSeats(ctx, &summary.Trip)
		if err != nil {
			return nil, err
		}
		summary.AvailableSeats = available
	}

	return summaries, nil
}

// SeatMapResult is a point-in-time snapshot of a trip's seat occupancy.
// Callers re-fetch to observe changes; there is no streaming guarantee.
type SeatMapResult struct {
	TripID         string
	Capacity       int
	OccupiedSeats  []int
	AvailableSeats int
}

// SeatMap returns the trip's capacity and occupied seats from a fresh
// ledger read. Never served from cache: a committed seat must never be
// missing from a seat map.
func (s *AvailabilityService) SeatMap(ctx context.Context, tripID string) (*SeatMapResult, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.ledger.OccupiedSeats(ctx, tripID)
	if err != nil {
		return nil, err
	}

	available := trip.Capacity - len(occupied)
	if available < 0 {
		available = 0
	}

	return &SeatMapResult{
		TripID:         trip.ID,
		Capacity:       trip.Capacity,
		OccupiedSeats:  occupied,
		AvailableSeats: available,
	}, nil
}

// availableSeats serves the count from cache when fresh, falling back to
// the ledger. The ledger invalidates the cache on every mutation, so a
// cached value is at most AvailabilityCacheTTL behind a failed
// invalidation, and search results are allowed that staleness.
func (s *AvailabilityService) availableSeats(ctx context.Context, trip *domain.Trip) (int, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetAvailability(ctx, trip.ID)
		if err == nil && cached != nil {
			return cached.AvailableSeats, nil
		}
	}

	available, err := s.ledger.AvailableCount(ctx, trip.ID, trip.Capacity)
	if err != nil {
		return 0, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetAvailability(ctx, &redis.CachedAvailability{
			TripID:         trip.ID,
			AvailableSeats: available,
		})
	}

	return available, nil
}
