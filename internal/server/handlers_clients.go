package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shortlisthq/shortlist/internal/workflow"
)

// handleListTiers returns the immutable tier catalog.
func (s *Server) handleListTiers(w http.ResponseWriter, _ *http.Request) {
	tiers := s.svc.Store().Tiers()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"tiers": tiers,
		"count": len(tiers),
	})
}

// handleRegisterClient creates a client account on the free tier.
func (s *Server) handleRegisterClient(w http.ResponseWriter, r *http.Request) {
	var req workflow.RegisterClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	client, err := s.svc.RegisterClient(r.Context(), req)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, client)
}

// handleListClients lists all client accounts.
func (s *Server) handleListClients(w http.ResponseWriter, _ *http.Request) {
	clients := s.svc.Store().Clients()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"clients": clients,
		"count":   len(clients),
	})
}

// handleGetClient retrieves a client by ID.
func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	client, ok := s.svc.Store().ClientByID(clientID)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, client)
}

// handleUpdateClient applies an admin edit to a client's contact fields.
func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var update workflow.ClientUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	client, err := s.svc.UpdateClient(r.Context(), clientID, update)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, client)
}

// handleDeleteClient removes a client and everything it owns.
func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	if err := s.svc.DeleteClient(r.Context(), clientID); err != nil {
		s.workflowError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpgradeTierRequest selects the client's new tier.
type UpgradeTierRequest struct {
	TierID uuid.UUID `json:"tier_id"`
}

// handleUpgradeTier moves a client to a new tier, resetting credits and quota
// to the tier's allotments.
func (s *Server) handleUpgradeTier(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var req UpgradeTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	client, err := s.svc.UpgradeTier(r.Context(), clientID, req.TierID)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, client)
}

// GrantCreditsRequest is the admin credit top-up body.
type GrantCreditsRequest struct {
	Amount int `json:"amount"`
}

// handleGrantCredits adds credits to a client's balance.
func (s *Server) handleGrantCredits(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var req GrantCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	client, err := s.svc.GrantCredits(r.Context(), clientID, req.Amount)
	if err != nil {
		s.workflowError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, client)
}
