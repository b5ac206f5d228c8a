package service

import "errors"

var (
	// ErrTripNotBookable is returned when the trip is not in scheduled status.
	ErrTripNotBookable = errors.New("trip is not open for booking")

	// ErrInvalidSeatSelection is returned when a seat selection has a bad
	// seat number, a duplicate, or a missing passenger name.
	ErrInvalidSeatSelection = errors.New("invalid seat selection")

	// ErrInvalidTransition is returned when a booking status change is not
	// legal from the current status.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrInvalidRefundAmount is returned when a refund exceeds the amount paid.
	ErrInvalidRefundAmount = errors.New("refund amount exceeds final amount")

	// ErrPromotionNotFound is returned when a promo code is unknown or inactive.
	ErrPromotionNotFound = errors.New("promotion not found")

	// ErrPromotionExpired is returned when the promo code is outside its
	// validity window.
	ErrPromotionExpired = errors.New("promotion expired")

	// ErrPromotionUsageExceeded is returned when the promo code's usage
	// limit has been reached.
	ErrPromotionUsageExceeded = errors.New("promotion usage limit reached")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidCustomerID is returned when customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidPaymentRef is returned when the payment reference is empty.
	ErrInvalidPaymentRef = errors.New("invalid payment reference")

	// ErrInvalidCapacity is returned when a bus capacity is not positive.
	ErrInvalidCapacity = errors.New("capacity must be positive")

	// ErrInvalidPrice is returned when a trip price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrInvalidSchedule is returned when departure is not before arrival.
	ErrInvalidSchedule = errors.New("departure must be before arrival")

	// ErrInvalidTripTransition is returned when a trip status change is not
	// legal from the current status.
	ErrInvalidTripTransition = errors.New("invalid trip status transition")

	// ErrInvalidPromotionValue is returned when a promotion's value is out
	// of range for its type.
	ErrInvalidPromotionValue = errors.New("invalid promotion value")

	// ErrInvalidRoute is returned when route fields are missing.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrInvalidSearch is returned when search parameters are missing.
	ErrInvalidSearch = errors.New("origin, destination and date are required")
)
