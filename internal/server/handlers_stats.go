package server

import (
	"net/http"
	"strconv"
)

// handleStats returns the system snapshot.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.Stats())
}

// handleTopSourcers ranks sourcers by completed jobs. ?limit= caps the list.
func (s *Server) handleTopSourcers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	sourcers := s.svc.TopSourcers(limit)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sourcers": sourcers,
		"count":    len(sourcers),
	})
}
