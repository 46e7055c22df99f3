package domain

import "time"

// Event is a published meetup tied to a train station.
// Slug is generated from the name and identifies the event's public page.
type Event struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Hashtag   string    `json:"hashtag"`
	Host      string    `json:"host"`
	URL       string    `json:"url,omitempty"`
	StationID int64     `json:"station_id"`
	Begin     time.Time `json:"begin"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventSuggestion is a user-submitted candidate event awaiting moderation.
// Processed flips to true exactly once, on acceptance or denial, and is
// terminal — processed suggestions cannot be mutated again.
type EventSuggestion struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Name               string    `json:"name"`
	Hashtag            string    `json:"hashtag"`
	Host               string    `json:"host"`
	URL                string    `json:"url,omitempty"`
	NearestStationName string    `json:"nearest_station_name"`
	Begin              time.Time `json:"begin"`
	End                time.Time `json:"end"`
	Processed          bool      `json:"processed"`
	CreatedAt          time.Time `json:"created_at"`
}
