package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationTypeEventSuggestionProcessed marks notifications produced when
// an admin accepts or denies an event suggestion.
const NotificationTypeEventSuggestionProcessed = "event_suggestion_processed"

// NotificationData is the stored payload of a suggestion-outcome notification.
// Event is nil when the suggestion was denied.
type NotificationData struct {
	Accepted bool   `json:"accepted"`
	Name     string `json:"name"`
	Event    *Event `json:"event,omitempty"`
}

// Notification is an in-app message stored for a user. The rendered display
// form is computed on read; only the outcome data is persisted.
type Notification struct {
	ID        uuid.UUID
	UserID    int64
	Type      string
	Data      NotificationData
	ReadAt    *time.Time
	CreatedAt time.Time
}

// Read reports whether the notification has been marked as read.
func (n Notification) Read() bool { return n.ReadAt != nil }
