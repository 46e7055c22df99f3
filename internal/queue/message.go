// Package queue defines the message payloads exchanged over the broker and
// the publisher that delivers them. Publishing is fire-and-forget from the
// caller's perspective: failures are logged and returned, never fatal.
package queue

import "time"

// Queue names. Declared durable on first use; messages are persistent.
const (
	// AdminBroadcastQueue carries moderation announcements for the admin
	// channel (the original platform forwarded these to a messenger bot).
	AdminBroadcastQueue = "admin.broadcast"

	// NotificationCreatedQueue announces freshly stored in-app notifications
	// so connected clients can refresh their notification board.
	NotificationCreatedQueue = "notification.created"
)

// AdminBroadcast is a moderation announcement for the admin channel.
type AdminBroadcast struct {
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// NotificationCreated announces a stored notification. It carries only
// identifiers; consumers fetch the rendered form through the API.
type NotificationCreated struct {
	NotificationID string    `json:"notification_id"`
	UserID         int64     `json:"user_id"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}
