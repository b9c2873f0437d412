package commands

import (
	"context"
	"errors"
	"testing"

	"admiral/contexts/community-governance/resolution-engine/adapters/memory"
	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	domainerrors "admiral/contexts/community-governance/resolution-engine/domain/errors"
)

func newSubjectVoteUseCase(store *memory.Store) SubjectVoteUseCase {
	return SubjectVoteUseCase{
		Votes:  store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
	}
}

func TestCreateSubjectVoteRequiresTwoDistinctOptions(t *testing.T) {
	store := memory.NewStore()
	uc := newSubjectVoteUseCase(store)

	_, _, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "user-1",
		Title:   "Pick a retro format",
		Options: []string{"mad-sad-glad"},
	})
	if !errors.Is(err, domainerrors.ErrTooFewOptions) {
		t.Fatalf("expected too-few-options error, got %v", err)
	}

	_, _, err = uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "user-1",
		Title:   "Pick a retro format",
		Options: []string{"mad-sad-glad", "  mad-sad-glad ", ""},
	})
	if !errors.Is(err, domainerrors.ErrTooFewOptions) {
		t.Fatalf("expected duplicates to collapse below the minimum, got %v", err)
	}

	vote, options, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID:   "user-1",
		Title:     "Pick a retro format",
		ProjectID: "project-42",
		Options:   []string{"mad-sad-glad", "start-stop-continue"},
	})
	if err != nil {
		t.Fatalf("create vote failed: %v", err)
	}
	if vote.Status != entities.StatusOpen {
		t.Fatalf("expected new vote to be open, got %s", vote.Status)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	for _, option := range options {
		if option.VoteCount != 0 {
			t.Fatalf("expected fresh option count 0, got %d", option.VoteCount)
		}
	}
}

func TestCastMovesBallotAndKeepsTallyConsistent(t *testing.T) {
	store := memory.NewStore()
	uc := newSubjectVoteUseCase(store)

	vote, options, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "creator-1",
		Title:   "Which kata next",
		Options: []string{"minishell", "philosophers"},
	})
	if err != nil {
		t.Fatalf("create vote failed: %v", err)
	}
	first, second := options[0], options[1]

	cast, err := uc.Cast(context.Background(), CastBallotCommand{
		ActorID:  "user-1",
		VoteID:   vote.VoteID,
		OptionID: first.OptionID,
	})
	if err != nil {
		t.Fatalf("first cast failed: %v", err)
	}
	if cast.Moved {
		t.Fatal("first cast must not report a move")
	}

	// Re-casting the same option is a silent no-op.
	again, err := uc.Cast(context.Background(), CastBallotCommand{
		ActorID:  "user-1",
		VoteID:   vote.VoteID,
		OptionID: first.OptionID,
	})
	if err != nil {
		t.Fatalf("idempotent re-cast failed: %v", err)
	}
	if again.Moved || again.Ballot.BallotID != cast.Ballot.BallotID {
		t.Fatalf("expected the same untouched ballot, got %+v", again)
	}
	assertCounts(t, store, vote.VoteID, map[string]int{first.OptionID: 1, second.OptionID: 0})

	moved, err := uc.Cast(context.Background(), CastBallotCommand{
		ActorID:  "user-1",
		VoteID:   vote.VoteID,
		OptionID: second.OptionID,
	})
	if err != nil {
		t.Fatalf("move cast failed: %v", err)
	}
	if !moved.Moved {
		t.Fatal("expected the ballot to move")
	}
	if moved.Ballot.BallotID != cast.Ballot.BallotID {
		t.Fatalf("move must reuse the ballot, got %s and %s", moved.Ballot.BallotID, cast.Ballot.BallotID)
	}
	assertCounts(t, store, vote.VoteID, map[string]int{first.OptionID: 0, second.OptionID: 1})
}

func TestCastRejectsForeignOptionAndClosedVote(t *testing.T) {
	store := memory.NewStore()
	uc := newSubjectVoteUseCase(store)

	vote, _, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "creator-1",
		Title:   "First vote",
		Options: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("create vote failed: %v", err)
	}
	other, otherOptions, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "creator-1",
		Title:   "Second vote",
		Options: []string{"c", "d"},
	})
	if err != nil {
		t.Fatalf("create second vote failed: %v", err)
	}

	_, err = uc.Cast(context.Background(), CastBallotCommand{
		ActorID:  "user-1",
		VoteID:   vote.VoteID,
		OptionID: otherOptions[0].OptionID,
	})
	if !errors.Is(err, domainerrors.ErrOptionMismatch) {
		t.Fatalf("expected option mismatch, got %v", err)
	}

	if _, err := uc.Close(context.Background(), CloseSubjectVoteCommand{ActorID: "creator-1", VoteID: other.VoteID}); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	_, err = uc.Cast(context.Background(), CastBallotCommand{
		ActorID:  "user-1",
		VoteID:   other.VoteID,
		OptionID: otherOptions[0].OptionID,
	})
	if !errors.Is(err, domainerrors.ErrResolutionClosed) {
		t.Fatalf("expected closed-vote rejection, got %v", err)
	}
}

func TestCloseSettlesWinnerAndTieLeavesNone(t *testing.T) {
	store := memory.NewStore()
	uc := newSubjectVoteUseCase(store)

	vote, options, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "creator-1",
		Title:   "Snack budget",
		Options: []string{"coffee", "fruit"},
	})
	if err != nil {
		t.Fatalf("create vote failed: %v", err)
	}
	for _, userID := range []string{"user-1", "user-2"} {
		if _, err := uc.Cast(context.Background(), CastBallotCommand{
			ActorID:  userID,
			VoteID:   vote.VoteID,
			OptionID: options[0].OptionID,
		}); err != nil {
			t.Fatalf("cast for %s failed: %v", userID, err)
		}
	}
	if _, err := uc.Cast(context.Background(), CastBallotCommand{
		ActorID:  "user-3",
		VoteID:   vote.VoteID,
		OptionID: options[1].OptionID,
	}); err != nil {
		t.Fatalf("cast for user-3 failed: %v", err)
	}

	closed, err := uc.Close(context.Background(), CloseSubjectVoteCommand{ActorID: "creator-1", VoteID: vote.VoteID})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Status != entities.StatusClosed {
		t.Fatalf("expected closed status, got %s", closed.Status)
	}
	if closed.WinningOptionID != options[0].OptionID {
		t.Fatalf("expected %s to win, got %q", options[0].OptionID, closed.WinningOptionID)
	}
	if closed.ClosedAt == nil {
		t.Fatal("expected closed_at to be set")
	}

	// A second close is rejected outright.
	if _, err := uc.Close(context.Background(), CloseSubjectVoteCommand{ActorID: "creator-1", VoteID: vote.VoteID}); !errors.Is(err, domainerrors.ErrResolutionClosed) {
		t.Fatalf("expected repeated close to conflict, got %v", err)
	}

	tied, tiedOptions, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "creator-1",
		Title:   "Tied vote",
		Options: []string{"x", "y"},
	})
	if err != nil {
		t.Fatalf("create tied vote failed: %v", err)
	}
	for i, userID := range []string{"user-1", "user-2"} {
		if _, err := uc.Cast(context.Background(), CastBallotCommand{
			ActorID:  userID,
			VoteID:   tied.VoteID,
			OptionID: tiedOptions[i].OptionID,
		}); err != nil {
			t.Fatalf("tied cast failed: %v", err)
		}
	}
	closedTie, err := uc.Close(context.Background(), CloseSubjectVoteCommand{ActorID: "creator-1", VoteID: tied.VoteID})
	if err != nil {
		t.Fatalf("close tied vote failed: %v", err)
	}
	if closedTie.WinningOptionID != "" {
		t.Fatalf("expected no winner on a tie, got %q", closedTie.WinningOptionID)
	}
}

func TestCloseRequiresCreatorOrStaff(t *testing.T) {
	store := memory.NewStore()
	uc := newSubjectVoteUseCase(store)

	vote, _, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "creator-1",
		Title:   "Who closes this",
		Options: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("create vote failed: %v", err)
	}

	if _, err := uc.Close(context.Background(), CloseSubjectVoteCommand{ActorID: "user-2", VoteID: vote.VoteID}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-creator, got %v", err)
	}
	if _, err := uc.Close(context.Background(), CloseSubjectVoteCommand{ActorID: "staff-1", ActorIsStaff: true, VoteID: vote.VoteID}); err != nil {
		t.Fatalf("staff close failed: %v", err)
	}
}

func TestStaffDecideOverridesFromAnyStatus(t *testing.T) {
	store := memory.NewStore()
	uc := newSubjectVoteUseCase(store)

	vote, options, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "creator-1",
		Title:   "Override target",
		Options: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("create vote failed: %v", err)
	}
	if _, err := uc.Cast(context.Background(), CastBallotCommand{
		ActorID:  "user-1",
		VoteID:   vote.VoteID,
		OptionID: options[0].OptionID,
	}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	if _, err := uc.Close(context.Background(), CloseSubjectVoteCommand{ActorID: "creator-1", VoteID: vote.VoteID}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	_, err = uc.StaffDecide(context.Background(), StaffDecideSubjectVoteCommand{
		ActorID:         "user-2",
		VoteID:          vote.VoteID,
		WinningOptionID: options[1].OptionID,
	})
	if !errors.Is(err, domainerrors.ErrStaffOnly) {
		t.Fatalf("expected staff-only rejection, got %v", err)
	}

	// Staff can override a vote that already closed with a different winner,
	// even when the chosen option holds zero ballots.
	decided, err := uc.StaffDecide(context.Background(), StaffDecideSubjectVoteCommand{
		ActorID:         "staff-1",
		ActorIsStaff:    true,
		VoteID:          vote.VoteID,
		WinningOptionID: options[1].OptionID,
		Reason:          "vote brigading",
	})
	if err != nil {
		t.Fatalf("staff decide failed: %v", err)
	}
	if decided.Status != entities.StatusStaffDecided {
		t.Fatalf("expected staff_decided, got %s", decided.Status)
	}
	if decided.WinningOptionID != options[1].OptionID {
		t.Fatalf("expected override winner, got %q", decided.WinningOptionID)
	}
	if decided.StaffDecision == nil || decided.StaffDecision.By != "staff-1" {
		t.Fatalf("expected staff decision record, got %+v", decided.StaffDecision)
	}
}

func TestEditSubjectVoteCreatorOnlyWhileOpen(t *testing.T) {
	store := memory.NewStore()
	uc := newSubjectVoteUseCase(store)

	vote, _, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID:     "creator-1",
		Title:       "Original title",
		Description: "original",
		Options:     []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("create vote failed: %v", err)
	}

	if _, err := uc.Edit(context.Background(), EditSubjectVoteCommand{ActorID: "user-2", VoteID: vote.VoteID, Title: "hijack"}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-creator edit, got %v", err)
	}

	edited, err := uc.Edit(context.Background(), EditSubjectVoteCommand{ActorID: "creator-1", VoteID: vote.VoteID, Title: "New title"})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Title != "New title" || edited.Description != "original" {
		t.Fatalf("expected partial update, got %+v", edited)
	}

	if _, err := uc.Close(context.Background(), CloseSubjectVoteCommand{ActorID: "creator-1", VoteID: vote.VoteID}); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := uc.Edit(context.Background(), EditSubjectVoteCommand{ActorID: "creator-1", VoteID: vote.VoteID, Title: "too late"}); !errors.Is(err, domainerrors.ErrResolutionClosed) {
		t.Fatalf("expected closed-vote edit rejection, got %v", err)
	}
}

func TestDeleteSubjectVoteStaffOnlyAndCascades(t *testing.T) {
	store := memory.NewStore()
	uc := newSubjectVoteUseCase(store)

	vote, options, err := uc.Create(context.Background(), CreateSubjectVoteCommand{
		ActorID: "creator-1",
		Title:   "To be removed",
		Options: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("create vote failed: %v", err)
	}
	if _, err := uc.Cast(context.Background(), CastBallotCommand{
		ActorID:  "user-1",
		VoteID:   vote.VoteID,
		OptionID: options[0].OptionID,
	}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}

	if err := uc.Delete(context.Background(), DeleteSubjectVoteCommand{ActorID: "creator-1", VoteID: vote.VoteID}); !errors.Is(err, domainerrors.ErrStaffOnly) {
		t.Fatalf("expected staff-only delete rejection, got %v", err)
	}
	if err := uc.Delete(context.Background(), DeleteSubjectVoteCommand{ActorID: "staff-1", ActorIsStaff: true, VoteID: vote.VoteID}); err != nil {
		t.Fatalf("staff delete failed: %v", err)
	}

	if _, err := store.GetSubjectVote(context.Background(), vote.VoteID); !errors.Is(err, domainerrors.ErrVoteNotFound) {
		t.Fatalf("expected vote to be gone, got %v", err)
	}
	ballots, err := store.ListBallots(context.Background(), vote.VoteID)
	if err != nil {
		t.Fatalf("list ballots failed: %v", err)
	}
	if len(ballots) != 0 {
		t.Fatalf("expected cascading ballot delete, %d left", len(ballots))
	}
}

func assertCounts(t *testing.T, store *memory.Store, voteID string, expected map[string]int) {
	t.Helper()
	options, err := store.ListOptions(context.Background(), voteID)
	if err != nil {
		t.Fatalf("list options failed: %v", err)
	}
	total := 0
	for _, option := range options {
		if want, ok := expected[option.OptionID]; ok && option.VoteCount != want {
			t.Fatalf("option %s: expected count %d, got %d", option.OptionID, want, option.VoteCount)
		}
		total += option.VoteCount
	}
	ballots, err := store.ListBallots(context.Background(), voteID)
	if err != nil {
		t.Fatalf("list ballots failed: %v", err)
	}
	if total != len(ballots) {
		t.Fatalf("tally sum %d diverged from ballot count %d", total, len(ballots))
	}
}
