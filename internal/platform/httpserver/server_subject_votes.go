package httpserver

import (
	"encoding/json"
	"net/http"

	resolutionhttp "admiral/contexts/community-governance/resolution-engine/transport/http"
)

func (s *Server) handleCreateSubjectVote(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req resolutionhttp.CreateSubjectVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.CreateSubjectVoteHandler(r.Context(), principal.UserID, req)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSubjectVotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.resolutions.Handler.ListSubjectVotesHandler(
		r.Context(),
		query.Get("project_id"),
		query.Get("status"),
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSubjectVote(w http.ResponseWriter, r *http.Request) {
	voteID := r.PathValue("vote_id")
	resp, err := s.resolutions.Handler.GetSubjectVoteHandler(r.Context(), voteID)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditSubjectVote(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req resolutionhttp.EditSubjectVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.EditSubjectVoteHandler(
		r.Context(),
		principal.UserID,
		r.PathValue("vote_id"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteSubjectVote(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	err := s.resolutions.Handler.DeleteSubjectVoteHandler(
		r.Context(),
		principal.UserID,
		principal.IsStaff,
		r.PathValue("vote_id"),
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req resolutionhttp.CastBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.CastBallotHandler(
		r.Context(),
		principal.UserID,
		r.PathValue("vote_id"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseSubjectVote(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	resp, err := s.resolutions.Handler.CloseSubjectVoteHandler(
		r.Context(),
		principal.UserID,
		principal.IsStaff,
		r.PathValue("vote_id"),
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStaffDecideSubjectVote(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req resolutionhttp.StaffDecideSubjectVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResolutionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.resolutions.Handler.StaffDecideSubjectVoteHandler(
		r.Context(),
		principal.UserID,
		principal.IsStaff,
		r.PathValue("vote_id"),
		req,
	)
	if err != nil {
		writeResolutionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
