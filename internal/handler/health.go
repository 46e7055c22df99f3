package handler

import "net/http"

// GetHealth is a liveness probe. It reports nothing about dependencies;
// the process answering at all is the signal.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
