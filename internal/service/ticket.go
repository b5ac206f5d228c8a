package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"busline/internal/domain"
)

// TicketService produces e-tickets for confirmed bookings.
type TicketService struct {
	notificationService *NotificationService
}

// NewTicketService creates a new TicketService.
func NewTicketService(notificationService *NotificationService) *TicketService {
	return &TicketService{
		notificationService: notificationService,
	}
}

// Ticket is the printable record handed to the customer once payment is
// confirmed.
type Ticket struct {
	ID            string
	BookingID     string
	Reference     string
	CustomerID    string
	TripID        string
	DepartureTime time.Time
	Seats         []domain.SeatCommitment
	TotalAmount   float64
	Discount      float64
	FinalAmount   float64
	PaymentRef    string
	IssuedAt      time.Time
}

// Issue builds the ticket for a confirmed booking and notifies the customer.
func (s *TicketService) Issue(ctx context.Context, booking *domain.Booking, trip *domain.Trip) (*Ticket, error) {
	if booking == nil || trip == nil {
		return nil, ErrInvalidBookingID
	}

	ticket := &Ticket{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		Reference:     booking.Reference,
		CustomerID:    booking.CustomerID,
		TripID:        trip.ID,
		DepartureTime: trip.DepartureTime,
		Seats:         booking.Seats,
		TotalAmount:   booking.TotalAmount,
		Discount:      booking.DiscountAmount,
		FinalAmount:   booking.FinalAmount,
		PaymentRef:    booking.PaymentRef,
		IssuedAt:      time.Now(),
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTicketReady(ctx, ticket)
	}

	return ticket, nil
}

// FormatTicket formats the ticket as a string (for email/print).
func (s *TicketService) FormatTicket(ticket *Ticket) string {
	var seats []string
	for _, seat := range ticket.Seats {
		seats = append(seats, fmt.Sprintf("  Seat %d  %s", seat.SeatNumber, seat.PassengerName))
	}

	return `
=====================================
            BUS TICKET
=====================================
Reference: ` + ticket.Reference + `
Departure: ` + ticket.DepartureTime.Format("Jan 02, 2006 3:04 PM") + `

PASSENGERS
-------------------------------------
` + strings.Join(seats, "\n") + `

FARE
-------------------------------------
Total:            $` + fmt.Sprintf("%.2f", ticket.TotalAmount) + `
Discount:        -$` + fmt.Sprintf("%.2f", ticket.Discount) + `
-------------------------------------
PAID:             $` + fmt.Sprintf("%.2f", ticket.FinalAmount) + `

Payment Ref: ` + ticket.PaymentRef + `

=====================================
    Thank you for travelling with us!
=====================================
`
}
