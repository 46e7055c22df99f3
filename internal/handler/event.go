package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/middleware"
	"github.com/ChillLP/traewelling/internal/service"
)

type eventRequest struct {
	Name               string    `json:"name"`
	Hashtag            string    `json:"hashtag"`
	Host               string    `json:"host"`
	URL                string    `json:"url"`
	NearestStationName string    `json:"nearestStationName"`
	Begin              time.Time `json:"begin"`
	End                time.Time `json:"end"`
}

func (req eventRequest) toInput() service.EventInput {
	return service.EventInput{
		Name:               req.Name,
		Hashtag:            req.Hashtag,
		Host:               req.Host,
		URL:                req.URL,
		NearestStationName: req.NearestStationName,
		Begin:              req.Begin,
		End:                req.End,
	}
}

// ListEvents returns events ordered by their end date, newest first.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	p := paginationFromQuery(r)
	events, total, err := s.events.List(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Event]{
		Data: events,
		Meta: listMeta{Total: total, Page: p.Page, Limit: p.Limit},
	})
}

// CreateEvent creates an event directly, without going through a suggestion.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	event, err := s.events.Create(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]domain.Event{"data": event})
}

// UpdateEvent replaces an event's attributes. The slug is derived at
// creation time and never changes, existing status links stay valid.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	event, err := s.events.Update(r.Context(), id, req.toInput())
	if err != nil {
		writeServiceError(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.Event{"data": event})
}

func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.events.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SuggestEvent files a new event suggestion for moderation.
func (s *Server) SuggestEvent(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	suggestion, err := s.events.Suggest(r.Context(), *actor, req.toInput())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]domain.EventSuggestion{"data": suggestion})
}

// ListEventSuggestions returns the suggestions still awaiting moderation.
func (s *Server) ListEventSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.events.ListSuggestions(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.EventSuggestion{"data": suggestions})
}

// AcceptEventSuggestion turns a suggestion into a published event. The
// moderator may override any field of the suggestion before accepting; the
// request body carries the final event attributes.
func (s *Server) AcceptEventSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	admin := middleware.UserFromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	event, err := s.events.AcceptSuggestion(r.Context(), *admin, id, req.toInput())
	if err != nil {
		writeServiceError(w, r, err, "event suggestion not found")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]domain.Event{"data": event})
}

// DenyEventSuggestion rejects a suggestion without creating an event.
func (s *Server) DenyEventSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	admin := middleware.UserFromContext(r.Context())

	if err := s.events.DenySuggestion(r.Context(), *admin, id); err != nil {
		writeServiceError(w, r, err, "event suggestion not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
