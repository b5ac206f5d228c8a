package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busline/internal/service"
)

// CatalogHandler handles HTTP requests for routes and buses.
type CatalogHandler struct {
	tripService *service.TripService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(tripService *service.TripService) *CatalogHandler {
	return &CatalogHandler{tripService: tripService}
}

// CreateRouteRequest is the HTTP request for POST /v1/routes.
type CreateRouteRequest struct {
	OriginCity      string  `json:"origin_city" binding:"required"`
	DestinationCity string  `json:"destination_city" binding:"required"`
	DistanceKm      float64 `json:"distance_km"`
}

// RouteResponse is the HTTP response for route operations.
type RouteResponse struct {
	RouteID         string  `json:"route_id"`
	OriginCity      string  `json:"origin_city"`
	DestinationCity string  `json:"destination_city"`
	DistanceKm      float64 `json:"distance_km"`
}

// CreateBusRequest is the HTTP request for POST /v1/buses.
type CreateBusRequest struct {
	PlateNumber string   `json:"plate_number" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required"`
	Amenities   []string `json:"amenities"`
}

// BusResponse is the HTTP response for bus operations.
type BusResponse struct {
	BusID       string   `json:"bus_id"`
	PlateNumber string   `json:"plate_number"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
}

// CreateRoute handles POST /v1/routes
func (h *CatalogHandler) CreateRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	route, err := h.tripService.CreateRoute(c.Request.Context(), service.CreateRouteRequest{
		OriginCity:      req.OriginCity,
		DestinationCity: req.DestinationCity,
		DistanceKm:      req.DistanceKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RouteResponse{
		RouteID:         route.ID,
		OriginCity:      route.OriginCity,
		DestinationCity: route.DestinationCity,
		DistanceKm:      route.DistanceKm,
	})
}

// CreateBus handles POST /v1/buses
func (h *CatalogHandler) CreateBus(c *gin.Context) {
	var req CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	bus, err := h.tripService.CreateBus(c.Request.Context(), service.CreateBusRequest{
		PlateNumber: req.PlateNumber,
		Capacity:    req.Capacity,
		Amenities:   req.Amenities,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, BusResponse{
		BusID:       bus.ID,
		PlateNumber: bus.PlateNumber,
		Capacity:    bus.Capacity,
		Amenities:   bus.Amenities,
	})
}
