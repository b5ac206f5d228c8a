package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"busline/internal/domain"
	"busline/internal/redis"
	"busline/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

type tripRouteMeta struct {
	originCity      string
	destinationCity string
}

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu     sync.RWMutex
	trips  map[string]*domain.Trip
	routes map[string]tripRouteMeta

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError  error
	GetByIDError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips:  make(map[string]*domain.Trip),
		routes: make(map[string]tripRouteMeta),
	}
}

// AddTrip adds a trip to the mock repository with its route endpoints.
func (m *MockTripRepository) AddTrip(trip *domain.Trip, originCity, destinationCity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	m.routes[trip.ID] = tripRouteMeta{originCity: originCity, destinationCity: destinationCity}
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) Search(ctx context.Context, originCity, destinationCity string, from, to time.Time) ([]*domain.TripSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.TripSummary
	for id, trip := range m.trips {
		meta := m.routes[id]
		if trip.Status != domain.TripStatusScheduled {
			continue
		}
		if meta.originCity != originCity || meta.destinationCity != destinationCity {
			continue
		}
		if trip.DepartureTime.Before(from) || !trip.DepartureTime.Before(to) {
			continue
		}
		tripCopy := *trip
		result = append(result, &domain.TripSummary{
			Trip:            tripCopy,
			OriginCity:      meta.originCity,
			DestinationCity: meta.destinationCity,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Trip.DepartureTime.Before(result[j].Trip.DepartureTime)
	})

	return result, nil
}

func (m *MockTripRepository) UpdateStatus(ctx context.Context, id string, status domain.TripStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	trip.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK ROUTE / BUS REPOSITORIES
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	CreateError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{routes: make(map[string]*domain.Route)}
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

// MockBusRepository is a mock implementation of BusRepository.
type MockBusRepository struct {
	mu    sync.RWMutex
	buses map[string]*domain.Bus

	CreateError error
}

// NewMockBusRepository creates a new mock bus repository.
func NewMockBusRepository() *MockBusRepository {
	return &MockBusRepository{buses: make(map[string]*domain.Bus)}
}

func (m *MockBusRepository) Create(ctx context.Context, bus *domain.Bus) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[bus.ID] = bus
	return nil
}

func (m *MockBusRepository) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bus, ok := m.buses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *bus
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError      error
	CreateErrorOnce  error
	UpdateStatusErr  error
	SetPaymentRefErr error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{bookings: make(map[string]*domain.Booking)}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateErrorOnce != nil {
		err := m.CreateErrorOnce
		m.CreateErrorOnce = nil
		return err
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookings {
		if existing.Reference == booking.Reference {
			return repository.ErrDuplicateReference
		}
	}
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

func (m *MockBookingRepository) GetByIDForCustomer(ctx context.Context, id, customerID string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok || booking.CustomerID != customerID {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.BookingStatus) error {
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != from {
		return repository.ErrNotFound
	}
	booking.Status = to
	return nil
}

func (m *MockBookingRepository) SetPaymentRef(ctx context.Context, id, paymentRef string) error {
	if m.SetPaymentRefErr != nil {
		return m.SetPaymentRefErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.PaymentRef = paymentRef
	return nil
}

func (m *MockBookingRepository) SetRefundAmount(ctx context.Context, id string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.RefundAmount = amount
	return nil
}

// GetBooking returns a booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// Count returns the number of stored bookings.
func (m *MockBookingRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

func (m *MockBookingRepository) snapshot() map[string]*domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Booking, len(m.bookings))
	for id, b := range m.bookings {
		copy := *b
		snap[id] = &copy
	}
	return snap
}

func (m *MockBookingRepository) restore(snap map[string]*domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = snap
}

// ──────────────────────────────────────────────
// MOCK SEAT COMMITMENT REPOSITORY
// ──────────────────────────────────────────────

// MockSeatCommitmentRepository is a mock implementation of
// SeatCommitmentRepository. It enforces the same active-seat uniqueness the
// real storage constraint does.
type MockSeatCommitmentRepository struct {
	mu          sync.RWMutex
	commitments map[string]*domain.SeatCommitment

	// Counters for verification
	CreateBatchCallCount int32
	ReleaseCallCount     int32

	// Error injection
	CreateBatchError error
	ReleaseError     error
}

// NewMockSeatCommitmentRepository creates a new mock seat commitment repository.
func NewMockSeatCommitmentRepository() *MockSeatCommitmentRepository {
	return &MockSeatCommitmentRepository{commitments: make(map[string]*domain.SeatCommitment)}
}

func (m *MockSeatCommitmentRepository) CreateBatch(ctx context.Context, commitments []*domain.SeatCommitment) error {
	atomic.AddInt32(&m.CreateBatchCallCount, 1)
	if m.CreateBatchError != nil {
		return m.CreateBatchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	active := make(map[int]bool)
	for _, existing := range m.commitments {
		if existing.TripID == commitments[0].TripID && !existing.Released {
			active[existing.SeatNumber] = true
		}
	}
	for _, c := range commitments {
		if active[c.SeatNumber] {
			return repository.ErrSeatTaken
		}
	}

	for _, c := range commitments {
		copy := *c
		m.commitments[c.ID] = &copy
	}
	return nil
}

func (m *MockSeatCommitmentRepository) OccupiedSeats(ctx context.Context, tripID string) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var seats []int
	for _, c := range m.commitments {
		if c.TripID == tripID && !c.Released {
			seats = append(seats, c.SeatNumber)
		}
	}
	sort.Ints(seats)
	return seats, nil
}

func (m *MockSeatCommitmentRepository) ReleaseByBooking(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	if m.ReleaseError != nil {
		return m.ReleaseError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, c := range m.commitments {
		if c.BookingID == bookingID && !c.Released {
			c.Released = true
			c.ReleasedAt = now
		}
	}
	return nil
}

func (m *MockSeatCommitmentRepository) GetByBooking(ctx context.Context, bookingID string) ([]domain.SeatCommitment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.SeatCommitment
	for _, c := range m.commitments {
		if c.BookingID == bookingID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SeatNumber < result[j].SeatNumber })
	return result, nil
}

// ActiveCount returns the number of active commitments for a trip.
func (m *MockSeatCommitmentRepository) ActiveCount(tripID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, c := range m.commitments {
		if c.TripID == tripID && !c.Released {
			count++
		}
	}
	return count
}

func (m *MockSeatCommitmentRepository) snapshot() map[string]*domain.SeatCommitment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.SeatCommitment, len(m.commitments))
	for id, c := range m.commitments {
		copy := *c
		snap[id] = &copy
	}
	return snap
}

func (m *MockSeatCommitmentRepository) restore(snap map[string]*domain.SeatCommitment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitments = snap
}

// ──────────────────────────────────────────────
// MOCK PROMOTION REPOSITORY
// ──────────────────────────────────────────────

// MockPromotionRepository is a mock implementation of PromotionRepository.
type MockPromotionRepository struct {
	mu     sync.RWMutex
	promos map[string]*domain.Promotion

	IncrementUsageCallCount int32
}

// NewMockPromotionRepository creates a new mock promotion repository.
func NewMockPromotionRepository() *MockPromotionRepository {
	return &MockPromotionRepository{promos: make(map[string]*domain.Promotion)}
}

// AddPromotion adds a promotion to the mock repository.
func (m *MockPromotionRepository) AddPromotion(promo *domain.Promotion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos[promo.ID] = promo
}

func (m *MockPromotionRepository) Create(ctx context.Context, promo *domain.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos[promo.ID] = promo
	return nil
}

func (m *MockPromotionRepository) GetByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.promos {
		if p.Code == code {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPromotionRepository) IncrementUsage(ctx context.Context, id string, enforceLimit bool) error {
	atomic.AddInt32(&m.IncrementUsageCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	promo, ok := m.promos[id]
	if !ok {
		return repository.ErrNotFound
	}
	if enforceLimit && promo.UsageLimit > 0 && promo.UsageCount >= promo.UsageLimit {
		return repository.ErrNotFound
	}
	promo.UsageCount++
	return nil
}

// GetPromotion returns a promotion for test assertions.
func (m *MockPromotionRepository) GetPromotion(id string) *domain.Promotion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.promos[id]
}

func (m *MockPromotionRepository) snapshot() map[string]*domain.Promotion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Promotion, len(m.promos))
	for id, p := range m.promos {
		copy := *p
		snap[id] = &copy
	}
	return snap
}

func (m *MockPromotionRepository) restore(snap map[string]*domain.Promotion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos = snap
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION MANAGER
// ──────────────────────────────────────────────

// MockTransactionManager runs transaction functions against the in-memory
// repositories. Transactions are serialized and state is snapshotted before
// each one, so a failing function leaves no partial writes behind, matching
// real rollback semantics.
type MockTransactionManager struct {
	mu         sync.Mutex
	Bookings   *MockBookingRepository
	Seats      *MockSeatCommitmentRepository
	Promotions *MockPromotionRepository

	ExecuteCallCount int32

	// Error injection: returned before fn runs.
	ExecuteError error
}

// NewMockTransactionManager creates a new mock transaction manager over the
// given repositories.
func NewMockTransactionManager(
	bookings *MockBookingRepository,
	seats *MockSeatCommitmentRepository,
	promos *MockPromotionRepository,
) *MockTransactionManager {
	return &MockTransactionManager{
		Bookings:   bookings,
		Seats:      seats,
		Promotions: promos,
	}
}

func (m *MockTransactionManager) ExecuteTransaction(ctx context.Context, fn repository.TransactionFunc) error {
	atomic.AddInt32(&m.ExecuteCallCount, 1)
	if m.ExecuteError != nil {
		return m.ExecuteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bookingSnap := m.Bookings.snapshot()
	seatSnap := m.Seats.snapshot()
	promoSnap := m.Promotions.snapshot()

	err := fn(ctx, repository.TxRepositories{
		Bookings:   m.Bookings,
		Seats:      m.Seats,
		Promotions: m.Promotions,
	})
	if err != nil {
		m.Bookings.restore(bookingSnap)
		m.Seats.restore(seatSnap)
		m.Promotions.restore(promoSnap)
	}
	return err
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32

	// AlwaysHeld makes every acquisition fail, simulating lock contention.
	AlwaysHeld bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AlwaysHeld || m.locks[tripID] {
		return false, nil
	}
	m.locks[tripID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, tripID)
	return nil
}

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu      sync.RWMutex
	entries map[string]*redis.CachedAvailability

	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{entries: make(map[string]*redis.CachedAvailability)}
}

func (m *MockCacheStore) GetAvailability(ctx context.Context, tripID string) (*redis.CachedAvailability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cached, ok := m.entries[tripID]
	if !ok {
		return nil, nil
	}
	copy := *cached
	return &copy, nil
}

func (m *MockCacheStore) SetAvailability(ctx context.Context, cached *redis.CachedAvailability) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *cached
	m.entries[cached.TripID] = &copy
	return nil
}

func (m *MockCacheStore) InvalidateAvailability(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, tripID)
	return nil
}
