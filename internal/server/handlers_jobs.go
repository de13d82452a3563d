package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shortlisthq/shortlist/internal/store"
	"github.com/shortlisthq/shortlist/internal/workflow"
)

// handleSubmitJob creates a hiring request for a client.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var req workflow.SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	job, err := s.svc.SubmitJob(r.Context(), clientID, req)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleListJobs lists jobs, optionally filtered by ?status= or a
// ?from=/?to= RFC 3339 creation-date range. Sourcers browse the board with
// ?status=Unclaimed; admins pull date ranges for reporting.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []store.Job
	query := r.URL.Query()
	switch {
	case query.Get("status") != "":
		status, err := store.ParseJobStatus(query.Get("status"))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		jobs = s.svc.Store().JobsByStatus(status)
	case query.Get("from") != "" || query.Get("to") != "":
		from, err := time.Parse(time.RFC3339, query.Get("from"))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid from date, expected RFC 3339")
			return
		}
		to, err := time.Parse(time.RFC3339, query.Get("to"))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid to date, expected RFC 3339")
			return
		}
		jobs = s.svc.JobsByDateRange(from, to)
	default:
		jobs = s.svc.Store().Jobs()
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleGetJob retrieves a job by ID.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, ok := s.svc.Store().JobByID(jobID)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleListClientJobs lists all jobs owned by one client.
func (s *Server) handleListClientJobs(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	jobs := s.svc.Store().JobsByClient(clientID)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleDeleteJob removes a job and its candidates.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if err := s.svc.DeleteJob(r.Context(), jobID); err != nil {
		s.workflowError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClaimJobRequest names the sourcer taking the job.
type ClaimJobRequest struct {
	SourcerName string `json:"sourcer_name"`
}

// handleClaimJob assigns an unclaimed job to a sourcer.
func (s *Server) handleClaimJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req ClaimJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	job, err := s.svc.ClaimJob(r.Context(), jobID, req.SourcerName)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// CompleteJobRequest carries the optional completion note.
type CompleteJobRequest struct {
	Note string `json:"note,omitempty"`
}

// handleCompleteJob marks a claimed job as completed.
func (s *Server) handleCompleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req CompleteJobRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
			return
		}
	}

	job, err := s.svc.CompleteJob(r.Context(), jobID, req.Note)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleForceCompleteJob is the admin override completing a job from any
// state.
func (s *Server) handleForceCompleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.svc.ForceCompleteJob(r.Context(), jobID)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleReassignJob resets a claimed job back to the board.
func (s *Server) handleReassignJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.svc.ReassignJob(r.Context(), jobID)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}
