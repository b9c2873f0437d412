package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	resolutionengine "admiral/contexts/community-governance/resolution-engine"
	"admiral/contexts/community-governance/resolution-engine/ports"
	resolutionhttp "admiral/contexts/community-governance/resolution-engine/transport/http"
	principalresolver "admiral/contexts/identity-access/principal-resolver"
	principalentities "admiral/contexts/identity-access/principal-resolver/domain/entities"
)

func newTestServer() (*Server, principalresolver.Module) {
	principals := principalresolver.NewInMemoryModule("test-secret", []principalentities.Principal{
		{UserID: "user-1", Login: "ecorrect"},
		{UserID: "user-2", Login: "bcoded"},
		{UserID: "staff-1", Login: "admin", IsStaff: true},
	}, slog.Default())
	resolutions := resolutionengine.NewInMemoryModule([]ports.UserProjection{
		{UserID: "user-1", Login: "ecorrect"},
		{UserID: "user-2", Login: "bcoded"},
		{UserID: "staff-1", Login: "admin", IsStaff: true},
	}, slog.Default())
	return New(resolutions, principals, slog.Default(), ":0"), principals
}

func bearer(principals principalresolver.Module, userID string) string {
	return "Bearer " + principals.Tokens.MintToken(userID)
}

func TestSubjectVoteCreateRequiresAuthorization(t *testing.T) {
	server, _ := newTestServer()
	body := []byte(`{"title":"Pick a format","options":["a","b"]}`)
	req := httptest.NewRequest(http.MethodPost, "/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSubjectVoteListIsPublic(t *testing.T) {
	server, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/votes", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected anonymous list to succeed, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDisputeReadsRequireAuthorization(t *testing.T) {
	server, _ := newTestServer()
	for _, path := range []string{"/disputes", "/disputes/dispute-1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d body=%s", path, rr.Code, rr.Body.String())
		}
	}
}

func TestSubjectVoteLifecycleOverHTTP(t *testing.T) {
	server, principals := newTestServer()

	createBody := []byte(`{"title":"Snack budget","project_id":"project-1","options":["coffee","fruit"]}`)
	createReq := httptest.NewRequest(http.MethodPost, "/votes", bytes.NewReader(createBody))
	createReq.Header.Set("Content-Type", "application/json")
	createReq.Header.Set("Authorization", bearer(principals, "user-1"))
	createRR := httptest.NewRecorder()
	server.mux.ServeHTTP(createRR, createReq)
	if createRR.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", createRR.Code, createRR.Body.String())
	}
	var created resolutionhttp.SubjectVoteResponse
	if err := json.Unmarshal(createRR.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if len(created.Options) != 2 {
		t.Fatalf("expected 2 options in response, got %d", len(created.Options))
	}

	castBody, _ := json.Marshal(resolutionhttp.CastBallotRequest{OptionID: created.Options[0].OptionID})
	castReq := httptest.NewRequest(http.MethodPost, "/votes/"+created.VoteID+"/cast", bytes.NewReader(castBody))
	castReq.Header.Set("Content-Type", "application/json")
	castReq.Header.Set("Authorization", bearer(principals, "user-2"))
	castRR := httptest.NewRecorder()
	server.mux.ServeHTTP(castRR, castReq)
	if castRR.Code != http.StatusOK {
		t.Fatalf("expected 200 cast, got %d body=%s", castRR.Code, castRR.Body.String())
	}

	// Closing someone else's vote is forbidden.
	closeReq := httptest.NewRequest(http.MethodPost, "/votes/"+created.VoteID+"/close", nil)
	closeReq.Header.Set("Authorization", bearer(principals, "user-2"))
	closeRR := httptest.NewRecorder()
	server.mux.ServeHTTP(closeRR, closeReq)
	if closeRR.Code != http.StatusForbidden {
		t.Fatalf("expected 403 close by non-creator, got %d body=%s", closeRR.Code, closeRR.Body.String())
	}

	creatorClose := httptest.NewRequest(http.MethodPost, "/votes/"+created.VoteID+"/close", nil)
	creatorClose.Header.Set("Authorization", bearer(principals, "user-1"))
	creatorCloseRR := httptest.NewRecorder()
	server.mux.ServeHTTP(creatorCloseRR, creatorClose)
	if creatorCloseRR.Code != http.StatusOK {
		t.Fatalf("expected 200 close, got %d body=%s", creatorCloseRR.Code, creatorCloseRR.Body.String())
	}

	// Repeated close conflicts.
	repeatClose := httptest.NewRequest(http.MethodPost, "/votes/"+created.VoteID+"/close", nil)
	repeatClose.Header.Set("Authorization", bearer(principals, "user-1"))
	repeatCloseRR := httptest.NewRecorder()
	server.mux.ServeHTTP(repeatCloseRR, repeatClose)
	if repeatCloseRR.Code != http.StatusConflict {
		t.Fatalf("expected 409 repeated close, got %d body=%s", repeatCloseRR.Code, repeatCloseRR.Body.String())
	}

	deleteReq := httptest.NewRequest(http.MethodDelete, "/votes/"+created.VoteID, nil)
	deleteReq.Header.Set("Authorization", bearer(principals, "user-1"))
	deleteRR := httptest.NewRecorder()
	server.mux.ServeHTTP(deleteRR, deleteReq)
	if deleteRR.Code != http.StatusForbidden {
		t.Fatalf("expected 403 delete by non-staff, got %d body=%s", deleteRR.Code, deleteRR.Body.String())
	}

	staffDelete := httptest.NewRequest(http.MethodDelete, "/votes/"+created.VoteID, nil)
	staffDelete.Header.Set("Authorization", bearer(principals, "staff-1"))
	staffDeleteRR := httptest.NewRecorder()
	server.mux.ServeHTTP(staffDeleteRR, staffDelete)
	if staffDeleteRR.Code != http.StatusNoContent {
		t.Fatalf("expected 204 staff delete, got %d body=%s", staffDeleteRR.Code, staffDeleteRR.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/votes/"+created.VoteID, nil)
	getRR := httptest.NewRecorder()
	server.mux.ServeHTTP(getRR, getReq)
	if getRR.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d body=%s", getRR.Code, getRR.Body.String())
	}
}

func TestDisputeVisibilityOverHTTP(t *testing.T) {
	server, principals := newTestServer()

	createBody := []byte(`{"title":"Contested grade","project_id":"project-1","corrector_login":"ecorrect","corrected_login":"bcoded"}`)
	createReq := httptest.NewRequest(http.MethodPost, "/disputes", bytes.NewReader(createBody))
	createReq.Header.Set("Content-Type", "application/json")
	createReq.Header.Set("Authorization", bearer(principals, "user-1"))
	createRR := httptest.NewRecorder()
	server.mux.ServeHTTP(createRR, createReq)
	if createRR.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", createRR.Code, createRR.Body.String())
	}
	var created resolutionhttp.DisputeResponse
	if err := json.Unmarshal(createRR.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	// user-1 is the corrector, so the creation response shows their side only.
	if created.CorrectorUsername == nil || created.CorrectedUsername != nil {
		t.Fatalf("unexpected visibility in creation response: %+v", created)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/disputes/"+created.DisputeID, nil)
	getReq.Header.Set("Authorization", bearer(principals, "staff-1"))
	getRR := httptest.NewRecorder()
	server.mux.ServeHTTP(getRR, getReq)
	if getRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", getRR.Code, getRR.Body.String())
	}
	var asStaff resolutionhttp.DisputeResponse
	if err := json.Unmarshal(getRR.Body.Bytes(), &asStaff); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if asStaff.CorrectorUsername != nil || asStaff.CorrectedUsername != nil {
		t.Fatalf("staff viewer is not a side and sees no usernames, got %+v", asStaff)
	}

	voteBody := []byte(`{"side":"bystander"}`)
	voteReq := httptest.NewRequest(http.MethodPost, "/disputes/"+created.DisputeID+"/vote", bytes.NewReader(voteBody))
	voteReq.Header.Set("Content-Type", "application/json")
	voteReq.Header.Set("Authorization", bearer(principals, "user-2"))
	voteRR := httptest.NewRecorder()
	server.mux.ServeHTTP(voteRR, voteReq)
	if voteRR.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid side, got %d body=%s", voteRR.Code, voteRR.Body.String())
	}

	staffDecisionBody := []byte(`{"winner":"corrector","reason":"evidence"}`)
	decisionReq := httptest.NewRequest(http.MethodPost, "/disputes/"+created.DisputeID+"/staff-decision", bytes.NewReader(staffDecisionBody))
	decisionReq.Header.Set("Content-Type", "application/json")
	decisionReq.Header.Set("Authorization", bearer(principals, "user-2"))
	decisionRR := httptest.NewRecorder()
	server.mux.ServeHTTP(decisionRR, decisionReq)
	if decisionRR.Code != http.StatusForbidden {
		t.Fatalf("expected 403 staff decision by non-staff, got %d body=%s", decisionRR.Code, decisionRR.Body.String())
	}
}
