package domain

import "time"

// HafasTrip is a train journey imported from the HAFAS API. It is read-mostly
// reference data: check-ins point at it, but no workflow mutates it after
// import. TripID is the HAFAS identifier, distinct from the database ID.
type HafasTrip struct {
	ID            int64
	TripID        string
	Category      string
	LineName      string
	Number        string
	JourneyNumber int
	Origin        int64 // IBNR of the origin station
	Destination   int64 // IBNR of the destination station
	Departure     time.Time
	Arrival       time.Time
	Delay         int // minutes
	CreatedAt     time.Time
}
