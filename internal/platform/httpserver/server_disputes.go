package httpserver

import (
	"encoding/json"
	"net/http"

	resolutionhttp "admiral/contexts/community-governance/resolution-engine/transport/http"
)

func (s *Server) handleCreateDispute(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req resolutionhttp.CreateDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.CreateDisputeHandler(r.Context(), principal.UserID, req)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListDisputes(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	resp, err := s.resolutions.Handler.ListDisputesHandler(
		r.Context(),
		principal.UserID,
		query.Get("project_id"),
		query.Get("status"),
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDispute(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	resp, err := s.resolutions.Handler.GetDisputeHandler(
		r.Context(),
		principal.UserID,
		r.PathValue("dispute_id"),
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditDispute(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req resolutionhttp.EditDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.EditDisputeHandler(
		r.Context(),
		principal.UserID,
		r.PathValue("dispute_id"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDispute(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	err := s.resolutions.Handler.DeleteDisputeHandler(
		r.Context(),
		principal.UserID,
		principal.IsStaff,
		r.PathValue("dispute_id"),
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDisputeVote(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req resolutionhttp.DisputeVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.DisputeVoteHandler(
		r.Context(),
		principal.UserID,
		r.PathValue("dispute_id"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseDispute(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	resp, err := s.resolutions.Handler.CloseDisputeHandler(
		r.Context(),
		principal.UserID,
		principal.IsStaff,
		r.PathValue("dispute_id"),
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStaffDecideDispute(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req resolutionhttp.StaffDecideDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.StaffDecideDisputeHandler(
		r.Context(),
		principal.UserID,
		principal.IsStaff,
		r.PathValue("dispute_id"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
