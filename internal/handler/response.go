package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"busline/internal/repository"
	"busline/internal/service"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ConflictingSeats []int  `json:"conflicting_seats,omitempty"`
}

// respondError writes an error response with the appropriate status code.
func respondError(c *gin.Context, err error) {
	status := mapErrorToHTTPStatus(err)

	resp := ErrorResponse{Error: err.Error()}

	var conflict *repository.SeatConflictError
	if errors.As(err, &conflict) {
		resp.ConflictingSeats = conflict.Seats
	}

	c.JSON(status, resp)
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var conflict *repository.SeatConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidPaymentRef),
		errors.Is(err, service.ErrInvalidSeatSelection),
		errors.Is(err, service.ErrInvalidRefundAmount),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidPromotionValue),
		errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidSearch):
		return http.StatusBadRequest

	case errors.Is(err, repository.ErrSeatTaken),
		errors.Is(err, service.ErrTripNotBookable),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidTripTransition):
		return http.StatusConflict

	case errors.Is(err, service.ErrPromotionNotFound),
		errors.Is(err, service.ErrPromotionExpired),
		errors.Is(err, service.ErrPromotionUsageExceeded):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes a successful JSON response.
func respondJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
