package domain

import "time"

// Route represents a connection between two cities served by the operator.
type Route struct {
	ID              string
	OriginCity      string
	DestinationCity string
	DistanceKm      float64
	CreatedAt       time.Time
}

// Bus represents a vehicle in the fleet. Capacity is the total addressable
// seat count; seats on a trip are numbered 1..Capacity.
type Bus struct {
	ID          string
	PlateNumber string
	Capacity    int
	Amenities   []string
	CreatedAt   time.Time
}
