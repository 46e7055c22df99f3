package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/middleware"
	"github.com/ChillLP/traewelling/internal/service"
)

type createTagRequest struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Visibility string `json:"visibility"`
}

type updateTagRequest struct {
	Key   *string `json:"key"`
	Value string  `json:"value"`
}

type tagListResponse struct {
	Data []domain.StatusTag `json:"data"`
}

// ListTags returns the tags of a status that the caller may see.
// Anonymous callers get public tags only; the status owner gets everything.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	statusID, ok := pathID(w, r, "statusId")
	if !ok {
		return
	}

	viewer := middleware.UserFromContext(r.Context())
	tags, err := s.tags.ListForUser(r.Context(), statusID, viewer)
	if err != nil {
		writeServiceError(w, r, err, "status not found")
		return
	}
	writeJSON(w, http.StatusOK, tagListResponse{Data: tags})
}

// CreateTag attaches a new tag to the caller's status.
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	statusID, ok := pathID(w, r, "statusId")
	if !ok {
		return
	}
	actor := middleware.UserFromContext(r.Context())

	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	tag, err := s.tags.Create(r.Context(), statusID, *actor, service.CreateTagInput{
		Key:        req.Key,
		Value:      req.Value,
		Visibility: req.Visibility,
	})
	if err != nil {
		writeServiceError(w, r, err, "status not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.StatusTag{"data": tag})
}

// UpdateTag changes a tag's value and optionally renames its key via the
// "key" field. Visibility is fixed at creation time.
func (s *Server) UpdateTag(w http.ResponseWriter, r *http.Request) {
	statusID, ok := pathID(w, r, "statusId")
	if !ok {
		return
	}
	key := chi.URLParam(r, "tagKey")
	actor := middleware.UserFromContext(r.Context())

	var req updateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	tag, err := s.tags.Update(r.Context(), statusID, key, *actor, service.UpdateTagInput{
		Key:   req.Key,
		Value: req.Value,
	})
	if err != nil {
		writeServiceError(w, r, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.StatusTag{"data": tag})
}

// DeleteTag removes a tag from a status.
func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	statusID, ok := pathID(w, r, "statusId")
	if !ok {
		return
	}
	key := chi.URLParam(r, "tagKey")
	actor := middleware.UserFromContext(r.Context())

	if err := s.tags.Delete(r.Context(), statusID, key, *actor); err != nil {
		writeServiceError(w, r, err, "tag not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
