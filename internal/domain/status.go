package domain

import "time"

// Status is a user's check-in post, the subject that tags annotate.
// TripID links the status to the HAFAS trip it was checked into;
// nil for statuses without a train check-in.
type Status struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Body      string     `json:"body,omitempty"`
	TripID    *string    `json:"trip_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// StatusTag is a key/value annotation on a status. Keys are unique within
// one status; the pair (StatusID, Key) identifies a tag on the API surface.
type StatusTag struct {
	ID         int64      `json:"-"`
	StatusID   int64      `json:"status_id"`
	Key        string     `json:"key"`
	Value      string     `json:"value"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
