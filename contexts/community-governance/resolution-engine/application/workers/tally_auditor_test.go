package workers

import (
	"context"
	"testing"

	"admiral/contexts/community-governance/resolution-engine/adapters/memory"
	"admiral/contexts/community-governance/resolution-engine/domain/entities"
)

func TestTallyAuditorRepairsOptionDrift(t *testing.T) {
	store := memory.NewStore()
	vote := entities.SubjectVote{
		VoteID:    "vote-1",
		Title:     "Audited vote",
		CreatorID: "creator-1",
		Status:    entities.StatusOpen,
		CreatedAt: store.Now(),
	}
	options := []entities.Option{
		{OptionID: "option-a", VoteID: "vote-1", Text: "a"},
		{OptionID: "option-b", VoteID: "vote-1", Text: "b"},
	}
	if err := store.CreateSubjectVote(context.Background(), vote, options); err != nil {
		t.Fatalf("seed vote failed: %v", err)
	}
	now := store.Now()
	if err := store.ApplyBallot(context.Background(), entities.Ballot{
		BallotID:  "ballot-1",
		VoteID:    "vote-1",
		OptionID:  "option-a",
		UserID:    "user-1",
		CreatedAt: now,
		UpdatedAt: now,
	}, ""); err != nil {
		t.Fatalf("apply ballot failed: %v", err)
	}

	// Corrupt the materialized tally.
	if err := store.SaveOptionCount(context.Background(), "option-a", 7); err != nil {
		t.Fatalf("corrupt count failed: %v", err)
	}

	auditor := TallyAuditor{Votes: store, Disputes: store}
	if err := auditor.RunOnce(context.Background()); err != nil {
		t.Fatalf("audit run failed: %v", err)
	}

	repaired, err := store.ListOptions(context.Background(), "vote-1")
	if err != nil {
		t.Fatalf("list options failed: %v", err)
	}
	for _, option := range repaired {
		want := 0
		if option.OptionID == "option-a" {
			want = 1
		}
		if option.VoteCount != want {
			t.Fatalf("option %s: expected repaired count %d, got %d", option.OptionID, want, option.VoteCount)
		}
	}
}

func TestTallyAuditorRepairsDisputeDrift(t *testing.T) {
	store := memory.NewStore()
	dispute := entities.Dispute{
		DisputeID:   "dispute-1",
		Title:       "Audited dispute",
		CorrectorID: "user-a",
		CorrectedID: "user-b",
		CreatorID:   "user-a",
		Status:      entities.StatusOpen,
		CreatedAt:   store.Now(),
	}
	if err := store.CreateDispute(context.Background(), dispute); err != nil {
		t.Fatalf("seed dispute failed: %v", err)
	}
	now := store.Now()
	if err := store.ApplyDisputeBallot(context.Background(), entities.DisputeBallot{
		BallotID:  "dballot-1",
		DisputeID: "dispute-1",
		UserID:    "user-1",
		Side:      entities.SideCorrected,
		CreatedAt: now,
		UpdatedAt: now,
	}, ""); err != nil {
		t.Fatalf("apply dispute ballot failed: %v", err)
	}

	if err := store.SaveDisputeCounters(context.Background(), "dispute-1", 5, 5); err != nil {
		t.Fatalf("corrupt counters failed: %v", err)
	}

	auditor := TallyAuditor{Votes: store, Disputes: store}
	if err := auditor.RunOnce(context.Background()); err != nil {
		t.Fatalf("audit run failed: %v", err)
	}

	repaired, err := store.GetDispute(context.Background(), "dispute-1")
	if err != nil {
		t.Fatalf("get dispute failed: %v", err)
	}
	if repaired.CorrectorVotes != 0 || repaired.CorrectedVotes != 1 {
		t.Fatalf("expected repaired counters 0/1, got %d/%d", repaired.CorrectorVotes, repaired.CorrectedVotes)
	}
}
