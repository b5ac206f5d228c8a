package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"busline/internal/domain"
	"busline/internal/repository"
)

// referenceAttempts bounds regeneration when a booking reference collides.
const referenceAttempts = 3

// BookingService orchestrates the booking lifecycle: creation with atomic
// seat reservation, payment confirmation, cancellation and refund.
type BookingService struct {
	txManager     repository.TransactionManager
	bookingRepo   repository.BookingRepository
	seatRepo      repository.SeatCommitmentRepository
	tripRepo      repository.TripRepository
	ledger        *SeatLedger
	promotions    *PromotionService
	tickets       *TicketService
	notifications *NotificationService
	refPrefix     string
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	txManager repository.TransactionManager,
	bookingRepo repository.BookingRepository,
	seatRepo repository.SeatCommitmentRepository,
	tripRepo repository.TripRepository,
	ledger *SeatLedger,
	promotions *PromotionService,
	tickets *TicketService,
	notifications *NotificationService,
	refPrefix string,
) *BookingService {
	return &BookingService{
		txManager:     txManager,
		bookingRepo:   bookingRepo,
		seatRepo:      seatRepo,
		tripRepo:      tripRepo,
		ledger:        ledger,
		promotions:    promotions,
		tickets:       tickets,
		notifications: notifications,
		refPrefix:     refPrefix,
	}
}

// SeatSelection is one requested seat with its passenger.
type SeatSelection struct {
	SeatNumber    int
	PassengerName string
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	CustomerID string
	TripID     string
	Seats      []SeatSelection
	PromoCode  string // Optional: empty means no discount
}

// CreateBooking reserves the requested seats and persists the booking as
// one atomic unit. On any failure no booking and no seat commitments
// remain. Seat conflicts are reported immediately, never retried: seat
// choice is the customer's decision, not a transient fault.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if !trip.Bookable() {
		return nil, ErrTripNotBookable
	}

	if err := validateSeatSelections(req.Seats, trip.Capacity); err != nil {
		return nil, err
	}

	totalAmount := trip.Price * float64(len(req.Seats))

	var promo *domain.Promotion
	discount := 0.0
	if req.PromoCode != "" {
		promo, err = s.promotions.Validate(ctx, req.PromoCode, time.Now())
		if err != nil {
			return nil, err
		}
		discount = s.promotions.Discount(promo, totalAmount)
	}

	finalAmount := totalAmount - discount
	if finalAmount < 0 {
		finalAmount = 0
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:             uuid.New().String(),
		CustomerID:     req.CustomerID,
		TripID:         req.TripID,
		TotalAmount:    totalAmount,
		DiscountAmount: discount,
		FinalAmount:    finalAmount,
		Status:         domain.BookingStatusPending,
		CreatedAt:      now,
	}
	if promo != nil {
		booking.PromotionID = promo.ID
	}

	commitments := make([]*domain.SeatCommitment, len(req.Seats))
	for i, sel := range req.Seats {
		commitments[i] = &domain.SeatCommitment{
			ID:            uuid.New().String(),
			TripID:        req.TripID,
			BookingID:     booking.ID,
			SeatNumber:    sel.SeatNumber,
			PassengerName: strings.TrimSpace(sel.PassengerName),
			CreatedAt:     now,
		}
	}

	// Narrow the reservation race window; the seat uniqueness constraint
	// remains the authority if the lock is held elsewhere.
	unlock, err := s.ledger.LockTrip(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 0; attempt < referenceAttempts; attempt++ {
		booking.Reference, err = generateReference(s.refPrefix, now)
		if err != nil {
			return nil, err
		}

		err = s.txManager.ExecuteTransaction(ctx, func(ctx context.Context, r repository.TxRepositories) error {
			if err := s.ledger.ReserveIn(ctx, r.Seats, req.TripID, commitments); err != nil {
				return err
			}
			if promo != nil {
				if err := s.promotions.RecordUsageIn(ctx, r.Promotions, promo.ID); err != nil {
					return err
				}
			}
			return r.Bookings.Create(ctx, booking)
		})
		if !errors.Is(err, repository.ErrDuplicateReference) {
			break
		}
	}

	if err != nil {
		var conflict *repository.SeatConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		if errors.Is(err, repository.ErrSeatTaken) {
			// Lost the race to a concurrent commit; name the seats from a
			// fresh read now that the failed transaction is rolled back.
			requested := make([]int, len(commitments))
			for i, c := range commitments {
				requested[i] = c.SeatNumber
			}
			seats, lookupErr := s.ledger.ConflictingSeats(ctx, req.TripID, requested)
			if lookupErr != nil || len(seats) == 0 {
				seats = requested
			}
			return nil, &repository.SeatConflictError{TripID: req.TripID, Seats: seats}
		}
		return nil, err
	}

	s.ledger.InvalidateAvailability(ctx, req.TripID)

	for _, c := range commitments {
		booking.Seats = append(booking.Seats, *c)
	}

	if s.notifications != nil {
		_ = s.notifications.NotifyBookingCreated(ctx, booking)
	}

	return booking, nil
}

// ConfirmPayment transitions a pending booking to confirmed once payment
// has succeeded. The seats were already reserved at creation time and are
// left untouched.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID, customerID, paymentRef string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if paymentRef == "" {
		return nil, ErrInvalidPaymentRef
	}

	booking, err := s.bookingRepo.GetByIDForCustomer(ctx, bookingID, customerID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, ErrInvalidTransition
	}

	// The status guard lives in the UPDATE itself; a concurrent transition
	// between the read above and here surfaces as zero rows. The status
	// change and the payment reference commit or roll back together, so a
	// failed confirmation leaves the booking pending and retryable.
	err = s.txManager.ExecuteTransaction(ctx, func(ctx context.Context, r repository.TxRepositories) error {
		if err := r.Bookings.UpdateStatusFrom(ctx, bookingID, domain.BookingStatusPending, domain.BookingStatusConfirmed); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidTransition
			}
			return err
		}
		return r.Bookings.SetPaymentRef(ctx, bookingID, paymentRef)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.PaymentRef = paymentRef
	booking.Seats, err = s.seatRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.tickets != nil {
		trip, tripErr := s.tripRepo.GetByID(ctx, booking.TripID)
		if tripErr == nil {
			_, _ = s.tickets.Issue(ctx, booking, trip)
		}
	}
	if s.notifications != nil {
		_ = s.notifications.NotifyBookingConfirmed(ctx, booking)
	}

	return booking, nil
}

// CancelBooking cancels a pending or confirmed booking and releases its
// seats. This and RefundBooking are the only paths that return seats to
// the available pool.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, customerID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}

	booking, err := s.bookingRepo.GetByIDForCustomer(ctx, bookingID, customerID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return nil, ErrInvalidTransition
	}

	from := booking.Status
	err = s.txManager.ExecuteTransaction(ctx, func(ctx context.Context, r repository.TxRepositories) error {
		if err := r.Bookings.UpdateStatusFrom(ctx, bookingID, from, domain.BookingStatusCancelled); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidTransition
			}
			return err
		}
		return s.ledger.ReleaseIn(ctx, r.Seats, bookingID)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.InvalidateAvailability(ctx, booking.TripID)

	booking.Status = domain.BookingStatusCancelled
	booking.Seats, err = s.seatRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		_ = s.notifications.NotifyBookingCancelled(ctx, booking)
	}

	return booking, nil
}

// RefundBooking refunds a confirmed booking, releasing its seats and
// recording the refunded amount. Operator-side: not owner-scoped.
func (s *BookingService) RefundBooking(ctx context.Context, bookingID string, refundAmount float64) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusConfirmed {
		return nil, ErrInvalidTransition
	}

	if refundAmount < 0 || refundAmount > booking.FinalAmount {
		return nil, ErrInvalidRefundAmount
	}

	err = s.txManager.ExecuteTransaction(ctx, func(ctx context.Context, r repository.TxRepositories) error {
		if err := r.Bookings.UpdateStatusFrom(ctx, bookingID, domain.BookingStatusConfirmed, domain.BookingStatusRefunded); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidTransition
			}
			return err
		}
		if err := r.Bookings.SetRefundAmount(ctx, bookingID, refundAmount); err != nil {
			return err
		}
		return s.ledger.ReleaseIn(ctx, r.Seats, bookingID)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.InvalidateAvailability(ctx, booking.TripID)

	booking.Status = domain.BookingStatusRefunded
	booking.RefundAmount = refundAmount
	booking.Seats, err = s.seatRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		_ = s.notifications.NotifyBookingRefunded(ctx, booking)
	}

	return booking, nil
}

// GetBooking retrieves a booking with its seat list, scoped to its owner.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, customerID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}

	booking, err := s.bookingRepo.GetByIDForCustomer(ctx, bookingID, customerID)
	if err != nil {
		return nil, err
	}

	booking.Seats, err = s.seatRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// validateSeatSelections rejects empty selections, out-of-range or
// duplicate seat numbers, and blank passenger names.
func validateSeatSelections(seats []SeatSelection, capacity int) error {
	if len(seats) == 0 {
		return fmt.Errorf("%w: no seats selected", ErrInvalidSeatSelection)
	}

	seen := make(map[int]bool, len(seats))
	for _, sel := range seats {
		if sel.SeatNumber < 1 || sel.SeatNumber > capacity {
			return fmt.Errorf("%w: seat %d out of range 1..%d", ErrInvalidSeatSelection, sel.SeatNumber, capacity)
		}
		if seen[sel.SeatNumber] {
			return fmt.Errorf("%w: duplicate seat %d", ErrInvalidSeatSelection, sel.SeatNumber)
		}
		seen[sel.SeatNumber] = true
		if strings.TrimSpace(sel.PassengerName) == "" {
			return fmt.Errorf("%w: missing passenger name for seat %d", ErrInvalidSeatSelection, sel.SeatNumber)
		}
	}

	return nil
}

// generateReference builds a customer-facing booking reference of the form
// PREFIX-YYYYMMDD-XXXXXX. The suffix is random; the unique index on the
// reference column catches the rare collision and the caller regenerates.
func generateReference(prefix string, now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s",
		prefix,
		now.UTC().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(buf)),
	), nil
}
