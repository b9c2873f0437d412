package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	resolutionengine "admiral/contexts/community-governance/resolution-engine"
	resolutionerrors "admiral/contexts/community-governance/resolution-engine/domain/errors"
	resolutionhttp "admiral/contexts/community-governance/resolution-engine/transport/http"
	principalresolver "admiral/contexts/identity-access/principal-resolver"
	principalentities "admiral/contexts/identity-access/principal-resolver/domain/entities"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "admiral/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	resolutions resolutionengine.Module
	principals  principalresolver.Module
}

func New(
	resolutions resolutionengine.Module,
	principals principalresolver.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		resolutions: resolutions,
		principals:  principals,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /votes", s.handleCreateSubjectVote)
	s.mux.HandleFunc("GET /votes", s.handleListSubjectVotes)
	s.mux.HandleFunc("GET /votes/{vote_id}", s.handleGetSubjectVote)
	s.mux.HandleFunc("PUT /votes/{vote_id}", s.handleEditSubjectVote)
	s.mux.HandleFunc("DELETE /votes/{vote_id}", s.handleDeleteSubjectVote)
	s.mux.HandleFunc("POST /votes/{vote_id}/cast", s.handleCastBallot)
	s.mux.HandleFunc("POST /votes/{vote_id}/close", s.handleCloseSubjectVote)
	s.mux.HandleFunc("POST /votes/{vote_id}/staff-decision", s.handleStaffDecideSubjectVote)

	s.mux.HandleFunc("POST /disputes", s.handleCreateDispute)
	s.mux.HandleFunc("GET /disputes", s.handleListDisputes)
	s.mux.HandleFunc("GET /disputes/{dispute_id}", s.handleGetDispute)
	s.mux.HandleFunc("PUT /disputes/{dispute_id}", s.handleEditDispute)
	s.mux.HandleFunc("DELETE /disputes/{dispute_id}", s.handleDeleteDispute)
	s.mux.HandleFunc("POST /disputes/{dispute_id}/vote", s.handleDisputeVote)
	s.mux.HandleFunc("POST /disputes/{dispute_id}/close", s.handleCloseDispute)
	s.mux.HandleFunc("POST /disputes/{dispute_id}/staff-decision", s.handleStaffDecideDispute)
}

// authenticate resolves the caller or writes a 401 and reports failure.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (principalentities.Principal, bool) {
	principal, err := s.principals.Resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeResolutionError(w, http.StatusUnauthorized, "unauthenticated", "a valid bearer token is required")
		return principalentities.Principal{}, false
	}
	return principal, true
}

func writeResolutionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolutionerrors.ErrVoteNotFound):
		writeResolutionError(w, http.StatusNotFound, "vote_not_found", err.Error())
	case errors.Is(err, resolutionerrors.ErrDisputeNotFound):
		writeResolutionError(w, http.StatusNotFound, "dispute_not_found", err.Error())
	case errors.Is(err, resolutionerrors.ErrOptionNotFound):
		writeResolutionError(w, http.StatusNotFound, "option_not_found", err.Error())
	case errors.Is(err, resolutionerrors.ErrBallotNotFound):
		writeResolutionError(w, http.StatusNotFound, "ballot_not_found", err.Error())
	case errors.Is(err, resolutionerrors.ErrUserNotFound):
		writeResolutionError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, resolutionerrors.ErrInvalidInput),
		errors.Is(err, resolutionerrors.ErrTooFewOptions),
		errors.Is(err, resolutionerrors.ErrOptionMismatch),
		errors.Is(err, resolutionerrors.ErrInvalidSide),
		errors.Is(err, resolutionerrors.ErrSameSideVote):
		writeResolutionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, resolutionerrors.ErrForbidden),
		errors.Is(err, resolutionerrors.ErrStaffOnly):
		writeResolutionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, resolutionerrors.ErrResolutionClosed),
		errors.Is(err, resolutionerrors.ErrBallotExists):
		writeResolutionError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeResolutionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeResolutionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, resolutionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
