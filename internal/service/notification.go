package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/repo"
)

// Announcer publishes a just-created notification to the broker so
// connected clients can refresh their notification board. Fire-and-forget:
// implementations log failures and the workflow continues.
type Announcer interface {
	NotificationCreated(ctx context.Context, n domain.Notification) error
}

// NotificationService stores and renders in-app notifications.
type NotificationService struct {
	notifications repo.NotificationRepo
	announcer     Announcer
}

// NewNotificationService constructs a NotificationService backed by the
// provided repo and announcer.
func NewNotificationService(notifications repo.NotificationRepo, announcer Announcer) *NotificationService {
	return &NotificationService{notifications: notifications, announcer: announcer}
}

// RenderedNotification is the display form of a stored notification:
// everything the notification board needs, computed without side effects.
type RenderedNotification struct {
	ID            uuid.UUID `json:"id"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon"`
	Lead          string    `json:"lead"`
	Link          string    `json:"link"`
	Notice        string    `json:"notice"`
	DateForHumans string    `json:"date_for_humans"`
	Read          bool      `json:"read"`
}

// SuggestionProcessed stores the outcome notification for the suggestion's
// submitter and announces it on the broker. event is nil for denials.
func (s *NotificationService) SuggestionProcessed(ctx context.Context, suggestion domain.EventSuggestion, event *domain.Event) error {
	n, err := s.notifications.Create(ctx, domain.Notification{
		ID:     uuid.New(),
		UserID: suggestion.UserID,
		Type:   domain.NotificationTypeEventSuggestionProcessed,
		Data: domain.NotificationData{
			Accepted: event != nil,
			Name:     suggestion.Name,
			Event:    event,
		},
	})
	if err != nil {
		return fmt.Errorf("service.NotificationService.SuggestionProcessed: %w", err)
	}

	// Broker delivery must not fail the workflow; the announcer logs.
	_ = s.announcer.NotificationCreated(ctx, n)
	return nil
}

// List returns one page of the user's notifications in rendered form,
// newest first, plus the total count.
func (s *NotificationService) List(ctx context.Context, userID int64, p domain.PaginationParams) ([]RenderedNotification, int64, error) {
	notifications, total, err := s.notifications.ListPaged(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.NotificationService.List: %w", err)
	}

	now := time.Now()
	rendered := make([]RenderedNotification, len(notifications))
	for i, n := range notifications {
		rendered[i] = Render(n, now)
	}
	return rendered, total, nil
}

// MarkRead marks a notification of the user read (read=true) or unread.
// Returns domain.ErrNotFound if it does not exist or belongs to another user.
func (s *NotificationService) MarkRead(ctx context.Context, userID int64, id uuid.UUID, read bool) error {
	if err := s.notifications.SetRead(ctx, userID, id, read); err != nil {
		return fmt.Errorf("service.NotificationService.MarkRead: %w", err)
	}
	return nil
}

// Render formats a stored notification for display. It is a pure function
// of the notification and the current time — no I/O, no delivery concerns.
func Render(n domain.Notification, now time.Time) RenderedNotification {
	data := n.Data

	link := "#"
	notice := "denied"
	if data.Accepted {
		notice = "accepted"
		if data.Event != nil {
			link = "/statuses/event/" + data.Event.Slug
		}
	}

	return RenderedNotification{
		ID:            n.ID,
		Color:         "neutral",
		Icon:          "fa-regular fa-calendar",
		Lead:          fmt.Sprintf("Your event suggestion %q has been processed.", data.Name),
		Link:          link,
		Notice:        notice,
		DateForHumans: humanizeSince(now.Sub(n.CreatedAt)),
		Read:          n.Read(),
	}
}

// humanizeSince renders a coarse relative timestamp ("3 hours ago").
// Future or just-written timestamps collapse to "just now".
func humanizeSince(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
