package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"busline/internal/domain"
	"busline/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// SeatSelectionRequest is a single seat in a booking request.
type SeatSelectionRequest struct {
	SeatNumber    int    `json:"seat_number" binding:"required"`
	PassengerName string `json:"passenger_name" binding:"required"`
}

// CreateBookingRequest is the HTTP request for POST /v1/bookings.
type CreateBookingRequest struct {
	CustomerID string                 `json:"customer_id"`
	TripID     string                 `json:"trip_id" binding:"required"`
	Seats      []SeatSelectionRequest `json:"seats" binding:"required"`
	PromoCode  string                 `json:"promo_code"`
}

// ConfirmPaymentRequest is the HTTP request for POST /v1/bookings/:id/confirm.
type ConfirmPaymentRequest struct {
	CustomerID string `json:"customer_id"`
	PaymentRef string `json:"payment_ref" binding:"required"`
}

// CancelBookingRequest is the HTTP request for POST /v1/bookings/:id/cancel.
type CancelBookingRequest struct {
	CustomerID string `json:"customer_id"`
}

// RefundBookingRequest is the HTTP request for POST /v1/bookings/:id/refund.
type RefundBookingRequest struct {
	RefundAmount float64 `json:"refund_amount" binding:"required"`
}

// SeatInfo is a reserved seat in a booking response.
type SeatInfo struct {
	SeatNumber    int    `json:"seat_number"`
	PassengerName string `json:"passenger_name"`
	Released      bool   `json:"released"`
}

// BookingResponse is the HTTP response for booking operations.
type BookingResponse struct {
	BookingID      string     `json:"booking_id"`
	Reference      string     `json:"reference"`
	CustomerID     string     `json:"customer_id"`
	TripID         string     `json:"trip_id"`
	Status         string     `json:"status"`
	Seats          []SeatInfo `json:"seats"`
	TotalAmount    float64    `json:"total_amount"`
	DiscountAmount float64    `json:"discount_amount"`
	FinalAmount    float64    `json:"final_amount"`
	RefundAmount   float64    `json:"refund_amount,omitempty"`
	PaymentRef     string     `json:"payment_ref,omitempty"`
	CreatedAt      string     `json:"created_at"`
}

func toBookingResponse(booking *domain.Booking) BookingResponse {
	seats := make([]SeatInfo, 0, len(booking.Seats))
	for _, seat := range booking.Seats {
		seats = append(seats, SeatInfo{
			SeatNumber:    seat.SeatNumber,
			PassengerName: seat.PassengerName,
			Released:      seat.Released,
		})
	}

	return BookingResponse{
		BookingID:      booking.ID,
		Reference:      booking.Reference,
		CustomerID:     booking.CustomerID,
		TripID:         booking.TripID,
		Status:         string(booking.Status),
		Seats:          seats,
		TotalAmount:    booking.TotalAmount,
		DiscountAmount: booking.DiscountAmount,
		FinalAmount:    booking.FinalAmount,
		RefundAmount:   booking.RefundAmount,
		PaymentRef:     booking.PaymentRef,
		CreatedAt:      booking.CreatedAt.Format(time.RFC3339),
	}
}

// customerID resolves the caller identity from the X-Customer-ID header,
// falling back to the request body field.
func customerID(c *gin.Context, bodyField string) string {
	if id := c.GetHeader("X-Customer-ID"); id != "" {
		return id
	}
	return bodyField
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	seats := make([]service.SeatSelection, 0, len(req.Seats))
	for _, s := range req.Seats {
		seats = append(seats, service.SeatSelection{
			SeatNumber:    s.SeatNumber,
			PassengerName: s.PassengerName,
		})
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		CustomerID: customerID(c, req.CustomerID),
		TripID:     req.TripID,
		Seats:      seats,
		PromoCode:  req.PromoCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// Confirm handles POST /v1/bookings/:id/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	bookingID := c.Param("id")

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.bookingService.ConfirmPayment(c.Request.Context(), bookingID, customerID(c, req.CustomerID), req.PaymentRef)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID := c.Param("id")

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), bookingID, customerID(c, req.CustomerID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Refund handles POST /v1/bookings/:id/refund
func (h *BookingHandler) Refund(c *gin.Context) {
	bookingID := c.Param("id")

	var req RefundBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.bookingService.RefundBooking(c.Request.Context(), bookingID, req.RefundAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := h.bookingService.GetBooking(c.Request.Context(), bookingID, customerID(c, c.Query("customer_id")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
