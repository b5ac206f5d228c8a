package tests

import (
	"time"

	"github.com/google/uuid"

	"busline/internal/domain"
	"busline/internal/service"
)

// harness wires the booking stack against in-memory mocks.
type harness struct {
	tripRepo    *MockTripRepository
	bookingRepo *MockBookingRepository
	seatRepo    *MockSeatCommitmentRepository
	promoRepo   *MockPromotionRepository
	lockStore   *MockLockStore
	cacheStore  *MockCacheStore
	txManager   *MockTransactionManager

	ledger       *service.SeatLedger
	promotions   *service.PromotionService
	bookings     *service.BookingService
	availability *service.AvailabilityService
}

func newHarness(enforcePromoLimit bool) *harness {
	h := &harness{
		tripRepo:    NewMockTripRepository(),
		bookingRepo: NewMockBookingRepository(),
		seatRepo:    NewMockSeatCommitmentRepository(),
		promoRepo:   NewMockPromotionRepository(),
		lockStore:   NewMockLockStore(),
		cacheStore:  NewMockCacheStore(),
	}
	h.txManager = NewMockTransactionManager(h.bookingRepo, h.seatRepo, h.promoRepo)
	h.ledger = service.NewSeatLedger(h.seatRepo, h.lockStore, h.cacheStore)
	h.promotions = service.NewPromotionService(h.promoRepo, enforcePromoLimit)
	notifications := service.NewNotificationService()
	tickets := service.NewTicketService(notifications)
	h.bookings = service.NewBookingService(
		h.txManager,
		h.bookingRepo,
		h.seatRepo,
		h.tripRepo,
		h.ledger,
		h.promotions,
		tickets,
		notifications,
		"BUS",
	)
	h.availability = service.NewAvailabilityService(h.tripRepo, h.ledger, h.cacheStore)
	return h
}

// addScheduledTrip registers a bookable trip and returns it.
func (h *harness) addScheduledTrip(capacity int, price float64) *domain.Trip {
	trip := &domain.Trip{
		ID:            uuid.New().String(),
		RouteID:       uuid.New().String(),
		BusID:         uuid.New().String(),
		Capacity:      capacity,
		DepartureTime: time.Now().Add(24 * time.Hour),
		ArrivalTime:   time.Now().Add(30 * time.Hour),
		Price:         price,
		Status:        domain.TripStatusScheduled,
		CreatedAt:     time.Now(),
	}
	h.tripRepo.AddTrip(trip, "Nairobi", "Mombasa")
	return trip
}

func seats(selections ...service.SeatSelection) []service.SeatSelection {
	return selections
}

func seat(number int, passenger string) service.SeatSelection {
	return service.SeatSelection{SeatNumber: number, PassengerName: passenger}
}
