package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"busline/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationBookingRefunded  NotificationType = "BOOKING_REFUNDED"
	NotificationTicketReady      NotificationType = "TICKET_READY"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Twilio)
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingCreated notifies the customer that their booking is pending payment.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:        NotificationBookingCreated,
		RecipientID: booking.CustomerID,
		Title:       "Booking Created",
		Message:     fmt.Sprintf("Booking %s is reserved. Complete payment of $%.2f to confirm your seats.", booking.Reference, booking.FinalAmount),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"reference":  booking.Reference,
			"seats":      booking.SeatNumbers(),
			"amount":     booking.FinalAmount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyBookingConfirmed notifies the customer that payment succeeded.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:        NotificationBookingConfirmed,
		RecipientID: booking.CustomerID,
		Title:       "Booking Confirmed",
		Message:     fmt.Sprintf("Booking %s is confirmed. Have a good trip!", booking.Reference),
		Data: map[string]interface{}{
			"booking_id":  booking.ID,
			"reference":   booking.Reference,
			"payment_ref": booking.PaymentRef,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyBookingCancelled notifies the customer that the booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:        NotificationBookingCancelled,
		RecipientID: booking.CustomerID,
		Title:       "Booking Cancelled",
		Message:     fmt.Sprintf("Booking %s has been cancelled and its seats released.", booking.Reference),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"reference":  booking.Reference,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyBookingRefunded notifies the customer that the refund was recorded.
func (s *NotificationService) NotifyBookingRefunded(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:        NotificationBookingRefunded,
		RecipientID: booking.CustomerID,
		Title:       "Booking Refunded",
		Message:     fmt.Sprintf("Booking %s was refunded $%.2f.", booking.Reference, booking.RefundAmount),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"reference":  booking.Reference,
			"refund":     booking.RefundAmount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyTicketReady notifies the customer that the e-ticket is ready.
func (s *NotificationService) NotifyTicketReady(ctx context.Context, ticket *Ticket) error {
	notification := Notification{
		Type:        NotificationTicketReady,
		RecipientID: ticket.CustomerID,
		Title:       "Ticket Ready",
		Message:     fmt.Sprintf("Your ticket for booking %s is ready.", ticket.Reference),
		Data: map[string]interface{}{
			"ticket_id":  ticket.ID,
			"booking_id": ticket.BookingID,
			"reference":  ticket.Reference,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would:
	// 1. Store notification in database
	// 2. Send push notification via FCM/APNS
	// 3. Send SMS/email if enabled

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
