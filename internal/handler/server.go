// Package handler implements the HTTP handlers for the Träwelling API.
// All handlers are methods on Server. Methods are split into
// resource-specific files (tag.go, event.go, etc.) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/middleware"
	"github.com/ChillLP/traewelling/internal/service"
)

// TagServicer defines the business operations the tag handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TagServicer interface {
	ListForUser(ctx context.Context, statusID int64, viewer *domain.User) ([]domain.StatusTag, error)
	Create(ctx context.Context, statusID int64, actor domain.User, in service.CreateTagInput) (domain.StatusTag, error)
	Update(ctx context.Context, statusID int64, key string, actor domain.User, in service.UpdateTagInput) (domain.StatusTag, error)
	Delete(ctx context.Context, statusID int64, key string, actor domain.User) error
}

// EventServicer defines the business operations the event and moderation
// handlers depend on.
type EventServicer interface {
	Create(ctx context.Context, in service.EventInput) (domain.Event, error)
	Update(ctx context.Context, id int64, in service.EventInput) (domain.Event, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Event, int64, error)
	ListSuggestions(ctx context.Context) ([]domain.EventSuggestion, error)
	Suggest(ctx context.Context, submitter domain.User, in service.EventInput) (domain.EventSuggestion, error)
	AcceptSuggestion(ctx context.Context, admin domain.User, suggestionID int64, in service.EventInput) (domain.Event, error)
	DenySuggestion(ctx context.Context, admin domain.User, suggestionID int64) error
}

// NotificationServicer defines the operations the notification handlers depend on.
type NotificationServicer interface {
	List(ctx context.Context, userID int64, p domain.PaginationParams) ([]service.RenderedNotification, int64, error)
	MarkRead(ctx context.Context, userID int64, id uuid.UUID, read bool) error
}

// ExportServicer defines the operations the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, userID int64) ([]domain.ExportRow, error)
}

// Server implements all API endpoints. Wire it in main.go via Routes.
// Methods are in resource-specific files but all operate on this struct.
type Server struct {
	tags          TagServicer
	events        EventServicer
	notifications NotificationServicer
	export        ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(tags TagServicer, events EventServicer, notifications NotificationServicer, export ExportServicer) *Server {
	return &Server{tags: tags, events: events, notifications: notifications, export: export}
}

// Routes builds the full route tree with the given authenticator.
// The tag listing is the only endpoint open to anonymous callers; everything
// under /admin additionally requires the admin role.
func (s *Server) Routes(auth *middleware.Authenticator) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/statuses/{statusId}/tags", func(r chi.Router) {
			r.With(auth.Optional).Get("/", s.ListTags)
			r.With(auth.Require).Post("/", s.CreateTag)
			r.With(auth.Require).Put("/{tagKey}", s.UpdateTag)
			r.With(auth.Require).Delete("/{tagKey}", s.DeleteTag)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Get("/notifications", s.ListNotifications)
			r.Put("/notifications/{id}/read", s.MarkNotificationRead)
			r.Put("/notifications/{id}/unread", s.MarkNotificationUnread)
			r.Get("/export", s.GetExport)
			r.Post("/events/suggest", s.SuggestEvent)
		})

		r.Route("/admin/events", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/", s.ListEvents)
			r.Post("/", s.CreateEvent)
			r.Put("/{id}", s.UpdateEvent)
			r.Delete("/{id}", s.DeleteEvent)
			r.Get("/suggestions", s.ListEventSuggestions)
			r.Post("/suggestions/{id}/accept", s.AcceptEventSuggestion)
			r.Post("/suggestions/{id}/deny", s.DenyEventSuggestion)
		})
	})

	return r
}
