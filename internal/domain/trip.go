package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusScheduled TripStatus = "SCHEDULED"
	TripStatusDeparted  TripStatus = "DEPARTED"
	TripStatusArrived   TripStatus = "ARRIVED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// Trip represents one scheduled departure of a bus over a route.
// Capacity is snapshotted from the bus at creation time, so later fleet
// changes never affect seats already sold on this trip.
type Trip struct {
	ID            string
	RouteID       string
	BusID         string
	Capacity      int
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         float64
	Status        TripStatus
	CreatedAt     time.Time
}

// Bookable reports whether new bookings may be created for the trip.
func (t *Trip) Bookable() bool {
	return t.Status == TripStatusScheduled
}

// TripSummary is a trip annotated with route endpoints and live seat
// availability, as returned by trip search.
type TripSummary struct {
	Trip            Trip
	OriginCity      string
	DestinationCity string
	AvailableSeats  int
}
