package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// SubmitCandidatesRequest is a sourcer's batch of profile URLs.
type SubmitCandidatesRequest struct {
	URLs []string `json:"urls"`
}

// handleSubmitCandidates runs the acceptance pipeline for a batch of profile
// URLs against one job. The response always includes the full submission
// report, whether or not anything was accepted.
func (s *Server) handleSubmitCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req SubmitCandidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	result, err := s.svc.SubmitCandidates(r.Context(), jobID, req.URLs)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleListJobCandidates lists accepted candidates for one job.
func (s *Server) handleListJobCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if _, ok := s.svc.Store().JobByID(jobID); !ok {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	candidates := s.svc.Store().CandidatesByJob(jobID)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// handleListClientCandidates lists accepted candidates across all of a
// client's jobs.
func (s *Server) handleListClientCandidates(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	if _, ok := s.svc.Store().ClientByID(clientID); !ok {
		s.errorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	candidates := s.svc.Store().CandidatesByClient(clientID)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidates": candidates,
		"count":      len(candidates),
	})
}
