package commands

import (
	"context"
	"errors"
	"testing"

	"admiral/contexts/community-governance/resolution-engine/adapters/memory"
	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	domainerrors "admiral/contexts/community-governance/resolution-engine/domain/errors"
	"admiral/contexts/community-governance/resolution-engine/ports"
)

func newDisputeUseCase(store *memory.Store) DisputeUseCase {
	store.SetUser(ports.UserProjection{UserID: "user-corrector", Login: "ecorrect"})
	store.SetUser(ports.UserProjection{UserID: "user-corrected", Login: "bcoded"})
	return DisputeUseCase{
		Disputes: store,
		Users:    store,
		Outbox:   store,
		Clock:    store,
		IDGen:    store,
	}
}

func mustCreateDispute(t *testing.T, uc DisputeUseCase) entities.Dispute {
	t.Helper()
	dispute, err := uc.Create(context.Background(), CreateDisputeCommand{
		ActorID:        "user-corrector",
		Title:          "Contested defense grade",
		ProjectID:      "project-42",
		CorrectorLogin: "ecorrect",
		CorrectedLogin: "bcoded",
	})
	if err != nil {
		t.Fatalf("create dispute failed: %v", err)
	}
	return dispute
}

func TestCreateDisputeResolvesLogins(t *testing.T) {
	store := memory.NewStore()
	uc := newDisputeUseCase(store)

	dispute := mustCreateDispute(t, uc)
	if dispute.CorrectorID != "user-corrector" || dispute.CorrectedID != "user-corrected" {
		t.Fatalf("expected logins resolved to user ids, got %+v", dispute)
	}
	if dispute.Status != entities.StatusOpen {
		t.Fatalf("expected open dispute, got %s", dispute.Status)
	}

	_, err := uc.Create(context.Background(), CreateDisputeCommand{
		ActorID:        "user-corrector",
		Title:          "Unknown party",
		CorrectorLogin: "ecorrect",
		CorrectedLogin: "nobody",
	})
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected user-not-found for unknown login, got %v", err)
	}
}

func TestDisputeVoteAndSideSwitch(t *testing.T) {
	store := memory.NewStore()
	uc := newDisputeUseCase(store)
	dispute := mustCreateDispute(t, uc)

	after, err := uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-1",
		DisputeID: dispute.DisputeID,
		Side:      entities.SideCorrector,
	})
	if err != nil {
		t.Fatalf("first dispute vote failed: %v", err)
	}
	if after.CorrectorVotes != 1 || after.CorrectedVotes != 0 {
		t.Fatalf("expected 1/0 after first vote, got %d/%d", after.CorrectorVotes, after.CorrectedVotes)
	}

	// Re-submitting the held side is rejected, not silently absorbed.
	_, err = uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-1",
		DisputeID: dispute.DisputeID,
		Side:      entities.SideCorrector,
	})
	if !errors.Is(err, domainerrors.ErrSameSideVote) {
		t.Fatalf("expected same-side rejection, got %v", err)
	}

	switched, err := uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-1",
		DisputeID: dispute.DisputeID,
		Side:      entities.SideCorrected,
	})
	if err != nil {
		t.Fatalf("side switch failed: %v", err)
	}
	if switched.CorrectorVotes != 0 || switched.CorrectedVotes != 1 {
		t.Fatalf("expected 0/1 after switch, got %d/%d", switched.CorrectorVotes, switched.CorrectedVotes)
	}

	_, err = uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-1",
		DisputeID: dispute.DisputeID,
		Side:      "bystander",
	})
	if !errors.Is(err, domainerrors.ErrInvalidSide) {
		t.Fatalf("expected invalid-side rejection, got %v", err)
	}
}

func TestDisputeCloseDerivesWinnerOrTie(t *testing.T) {
	store := memory.NewStore()
	uc := newDisputeUseCase(store)
	dispute := mustCreateDispute(t, uc)

	for _, userID := range []string{"user-1", "user-2"} {
		if _, err := uc.Vote(context.Background(), DisputeVoteCommand{
			ActorID:   userID,
			DisputeID: dispute.DisputeID,
			Side:      entities.SideCorrected,
		}); err != nil {
			t.Fatalf("vote for %s failed: %v", userID, err)
		}
	}
	if _, err := uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-3",
		DisputeID: dispute.DisputeID,
		Side:      entities.SideCorrector,
	}); err != nil {
		t.Fatalf("vote for user-3 failed: %v", err)
	}

	closed, err := uc.Close(context.Background(), CloseDisputeCommand{ActorID: "user-corrector", DisputeID: dispute.DisputeID})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Winner != entities.SideCorrected {
		t.Fatalf("expected corrected side to win, got %q", closed.Winner)
	}
	if closed.Status != entities.StatusClosed || closed.ClosedAt == nil {
		t.Fatalf("expected terminal closed dispute, got %+v", closed)
	}

	// Voting after closure is rejected.
	if _, err := uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-4",
		DisputeID: dispute.DisputeID,
		Side:      entities.SideCorrector,
	}); !errors.Is(err, domainerrors.ErrResolutionClosed) {
		t.Fatalf("expected closed-dispute rejection, got %v", err)
	}

	tiedDispute := mustCreateDispute(t, uc)
	if _, err := uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-1",
		DisputeID: tiedDispute.DisputeID,
		Side:      entities.SideCorrector,
	}); err != nil {
		t.Fatalf("tied vote failed: %v", err)
	}
	if _, err := uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-2",
		DisputeID: tiedDispute.DisputeID,
		Side:      entities.SideCorrected,
	}); err != nil {
		t.Fatalf("tied vote failed: %v", err)
	}
	closedTie, err := uc.Close(context.Background(), CloseDisputeCommand{ActorID: "user-corrector", DisputeID: tiedDispute.DisputeID})
	if err != nil {
		t.Fatalf("close tied dispute failed: %v", err)
	}
	if closedTie.Winner != "" {
		t.Fatalf("expected no winner on tie, got %q", closedTie.Winner)
	}
}

func TestDisputeStaffDecideRequiresStaffAndWinner(t *testing.T) {
	store := memory.NewStore()
	uc := newDisputeUseCase(store)
	dispute := mustCreateDispute(t, uc)

	_, err := uc.StaffDecide(context.Background(), StaffDecideDisputeCommand{
		ActorID:   "user-1",
		DisputeID: dispute.DisputeID,
		Winner:    entities.SideCorrector,
	})
	if !errors.Is(err, domainerrors.ErrStaffOnly) {
		t.Fatalf("expected staff-only rejection, got %v", err)
	}

	_, err = uc.StaffDecide(context.Background(), StaffDecideDisputeCommand{
		ActorID:      "staff-1",
		ActorIsStaff: true,
		DisputeID:    dispute.DisputeID,
		Winner:       "",
	})
	if !errors.Is(err, domainerrors.ErrInvalidSide) {
		t.Fatalf("expected mandatory winner, got %v", err)
	}

	decided, err := uc.StaffDecide(context.Background(), StaffDecideDisputeCommand{
		ActorID:      "staff-1",
		ActorIsStaff: true,
		DisputeID:    dispute.DisputeID,
		Winner:       entities.SideCorrector,
		Reason:       "video evidence",
	})
	if err != nil {
		t.Fatalf("staff decide failed: %v", err)
	}
	if decided.Status != entities.StatusStaffDecided || decided.Winner != entities.SideCorrector {
		t.Fatalf("unexpected staff decision outcome: %+v", decided)
	}
	if decided.StaffDecision == nil || decided.StaffDecision.Reason != "video evidence" {
		t.Fatalf("expected recorded decision, got %+v", decided.StaffDecision)
	}

	// The override stays valid on an already-closed dispute.
	another := mustCreateDispute(t, uc)
	if _, err := uc.Close(context.Background(), CloseDisputeCommand{ActorID: "user-corrector", DisputeID: another.DisputeID}); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := uc.StaffDecide(context.Background(), StaffDecideDisputeCommand{
		ActorID:      "staff-1",
		ActorIsStaff: true,
		DisputeID:    another.DisputeID,
		Winner:       entities.SideCorrected,
	}); err != nil {
		t.Fatalf("staff decide after close failed: %v", err)
	}
}

func TestDisputeDeleteStaffOnlyAndCascades(t *testing.T) {
	store := memory.NewStore()
	uc := newDisputeUseCase(store)
	dispute := mustCreateDispute(t, uc)

	if _, err := uc.Vote(context.Background(), DisputeVoteCommand{
		ActorID:   "user-1",
		DisputeID: dispute.DisputeID,
		Side:      entities.SideCorrector,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	if err := uc.Delete(context.Background(), DeleteDisputeCommand{ActorID: "user-corrector", DisputeID: dispute.DisputeID}); !errors.Is(err, domainerrors.ErrStaffOnly) {
		t.Fatalf("expected staff-only rejection, got %v", err)
	}
	if err := uc.Delete(context.Background(), DeleteDisputeCommand{ActorID: "staff-1", ActorIsStaff: true, DisputeID: dispute.DisputeID}); err != nil {
		t.Fatalf("staff delete failed: %v", err)
	}
	if _, err := store.GetDispute(context.Background(), dispute.DisputeID); !errors.Is(err, domainerrors.ErrDisputeNotFound) {
		t.Fatalf("expected dispute to be gone, got %v", err)
	}
	ballots, err := store.ListDisputeBallots(context.Background(), dispute.DisputeID)
	if err != nil {
		t.Fatalf("list dispute ballots failed: %v", err)
	}
	if len(ballots) != 0 {
		t.Fatalf("expected cascading ballot delete, %d left", len(ballots))
	}
}
