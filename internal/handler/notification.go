package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ChillLP/traewelling/internal/middleware"
	"github.com/ChillLP/traewelling/internal/service"
)

// ListNotifications returns the caller's notifications, newest first,
// rendered for display.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromContext(r.Context())
	p := paginationFromQuery(r)

	notifications, total, err := s.notifications.List(r.Context(), actor.ID, p)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[service.RenderedNotification]{
		Data: notifications,
		Meta: listMeta{Total: total, Page: p.Page, Limit: p.Limit},
	})
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.setNotificationRead(w, r, true)
}

func (s *Server) MarkNotificationUnread(w http.ResponseWriter, r *http.Request) {
	s.setNotificationRead(w, r, false)
}

func (s *Server) setNotificationRead(w http.ResponseWriter, r *http.Request, read bool) {
	actor := middleware.UserFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid notification id")
		return
	}

	if err := s.notifications.MarkRead(r.Context(), actor.ID, id, read); err != nil {
		writeServiceError(w, r, err, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
