package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"busline/internal/domain"
	"busline/internal/service"
)

// TripHandler handles HTTP requests for trips and the availability view.
type TripHandler struct {
	tripService         *service.TripService
	availabilityService *service.AvailabilityService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService, availabilityService *service.AvailabilityService) *TripHandler {
	return &TripHandler{
		tripService:         tripService,
		availabilityService: availabilityService,
	}
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	TripID         string  `json:"trip_id"`
	RouteID        string  `json:"route_id"`
	BusID          string  `json:"bus_id"`
	Origin         string  `json:"origin,omitempty"`
	Destination    string  `json:"destination,omitempty"`
	Capacity       int     `json:"capacity"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	Price          float64 `json:"price"`
	Status         string  `json:"status"`
	AvailableSeats *int    `json:"available_seats,omitempty"`
}

// SeatMapResponse is the HTTP response for GET /v1/trips/:id/seats.
type SeatMapResponse struct {
	TripID         string `json:"trip_id"`
	Capacity       int    `json:"capacity"`
	OccupiedSeats  []int  `json:"occupied_seats"`
	AvailableSeats int    `json:"available_seats"`
}

// CreateTripRequest is the HTTP request for POST /v1/trips.
type CreateTripRequest struct {
	RouteID       string  `json:"route_id" binding:"required"`
	BusID         string  `json:"bus_id" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	Price         float64 `json:"price" binding:"required"`
}

// UpdateTripStatusRequest is the HTTP request for POST /v1/trips/:id/status.
type UpdateTripStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Search handles GET /v1/trips/search?origin=X&destination=Y&date=2026-09-01
func (h *TripHandler) Search(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	dateStr := c.Query("date")

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(c, service.ErrInvalidSearch)
		return
	}

	summaries, err := h.availabilityService.Search(c.Request.Context(), origin, destination, date)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(summaries))
	for _, s := range summaries {
		available := s.AvailableSeats
		response = append(response, TripResponse{
			TripID:         s.Trip.ID,
			RouteID:        s.Trip.RouteID,
			BusID:          s.Trip.BusID,
			Origin:         s.OriginCity,
			Destination:    s.DestinationCity,
			Capacity:       s.Trip.Capacity,
			DepartureTime:  s.Trip.DepartureTime.Format(time.RFC3339),
			ArrivalTime:    s.Trip.ArrivalTime.Format(time.RFC3339),
			Price:          s.Trip.Price,
			Status:         string(s.Trip.Status),
			AvailableSeats: &available,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// SeatMap handles GET /v1/trips/:id/seats
func (h *TripHandler) SeatMap(c *gin.Context) {
	tripID := c.Param("id")

	result, err := h.availabilityService.SeatMap(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SeatMapResponse{
		TripID:         result.TripID,
		Capacity:       result.Capacity,
		OccupiedSeats:  result.OccupiedSeats,
		AvailableSeats: result.AvailableSeats,
	})
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID := c.Param("id")

	trip, err := h.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TripResponse{
		TripID:        trip.ID,
		RouteID:       trip.RouteID,
		BusID:         trip.BusID,
		Capacity:      trip.Capacity,
		DepartureTime: trip.DepartureTime.Format(time.RFC3339),
		ArrivalTime:   trip.ArrivalTime.Format(time.RFC3339),
		Price:         trip.Price,
		Status:        string(trip.Status),
	})
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		respondError(c, service.ErrInvalidSchedule)
		return
	}
	arrival, err := time.Parse(time.RFC3339, req.ArrivalTime)
	if err != nil {
		respondError(c, service.ErrInvalidSchedule)
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		RouteID:       req.RouteID,
		BusID:         req.BusID,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Price:         req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, TripResponse{
		TripID:        trip.ID,
		RouteID:       trip.RouteID,
		BusID:         trip.BusID,
		Capacity:      trip.Capacity,
		DepartureTime: trip.DepartureTime.Format(time.RFC3339),
		ArrivalTime:   trip.ArrivalTime.Format(time.RFC3339),
		Price:         trip.Price,
		Status:        string(trip.Status),
	})
}

// UpdateStatus handles POST /v1/trips/:id/status
func (h *TripHandler) UpdateStatus(c *gin.Context) {
	tripID := c.Param("id")

	var req UpdateTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	trip, err := h.tripService.UpdateTripStatus(c.Request.Context(), tripID, domain.TripStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TripResponse{
		TripID:        trip.ID,
		RouteID:       trip.RouteID,
		BusID:         trip.BusID,
		Capacity:      trip.Capacity,
		DepartureTime: trip.DepartureTime.Format(time.RFC3339),
		ArrivalTime:   trip.ArrivalTime.Format(time.RFC3339),
		Price:         trip.Price,
		Status:        string(trip.Status),
	})
}
