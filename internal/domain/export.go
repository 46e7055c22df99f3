package domain

import "time"

// ExportRow is a single row in a user's full-data export.
// It is a flat, denormalized view: one row per status, with the fields of
// the associated HAFAS trip repeated on the row. Statuses without a train
// check-in yield zero values for all trip fields.
type ExportRow struct {
	// Status fields.
	StatusID        int64     `json:"statusId"`
	StatusBody      string    `json:"statusBody"`
	StatusCreatedAt time.Time `json:"statusCreatedAt"`

	// Trip fields — zero values when the status has no check-in.
	TripCategory string     `json:"tripCategory,omitempty"`
	TripLineName string     `json:"tripLineName,omitempty"`
	Origin       string     `json:"origin,omitempty"` // station name
	Destination  string     `json:"destination,omitempty"`
	Arrival      *time.Time `json:"arrival,omitempty"`
	Departure    *time.Time `json:"departure,omitempty"`
}
