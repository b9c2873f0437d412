package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "admiral/contexts/community-governance/resolution-engine/application"
	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	domainerrors "admiral/contexts/community-governance/resolution-engine/domain/errors"
	"admiral/contexts/community-governance/resolution-engine/ports"
)

// CreateSubjectVoteCommand opens a new subject clarification vote.
type CreateSubjectVoteCommand struct {
	ActorID     string
	Title       string
	Description string
	ProjectID   string
	Options     []string
}

// CastBallotCommand casts or moves the actor's ballot inside an open vote.
type CastBallotCommand struct {
	ActorID  string
	VoteID   string
	OptionID string
}

type CastBallotResult struct {
	Ballot entities.Ballot
	Moved  bool
}

type CloseSubjectVoteCommand struct {
	ActorID      string
	ActorIsStaff bool
	VoteID       string
}

type StaffDecideSubjectVoteCommand struct {
	ActorID         string
	ActorIsStaff    bool
	VoteID          string
	WinningOptionID string
	Reason          string
}

type EditSubjectVoteCommand struct {
	ActorID     string
	VoteID      string
	Title       string
	Description string
}

type DeleteSubjectVoteCommand struct {
	ActorID      string
	ActorIsStaff bool
	VoteID       string
}

// SubjectVoteUseCase owns the subject-vote half of the resolution lifecycle:
// creation, ballot casting/moving, tally-driven closure, staff override,
// metadata edits, and cascading deletion.
type SubjectVoteUseCase struct {
	Votes  ports.SubjectVoteRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc SubjectVoteUseCase) Create(ctx context.Context, cmd CreateSubjectVoteCommand) (entities.SubjectVote, []entities.Option, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" || strings.TrimSpace(cmd.Title) == "" {
		return entities.SubjectVote{}, nil, domainerrors.ErrInvalidInput
	}

	texts := distinctOptionTexts(cmd.Options)
	if len(texts) < 2 {
		logger.Warn("subject vote create rejected",
			"event", "resolution_vote_create_validation_failed",
			"module", "community-governance/resolution-engine",
			"layer", "application",
			"actor_id", cmd.ActorID,
			"option_count", len(texts),
		)
		return entities.SubjectVote{}, nil, domainerrors.ErrTooFewOptions
	}

	now := uc.now()
	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.SubjectVote{}, nil, err
	}
	vote := entities.SubjectVote{
		VoteID:      voteID,
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		ProjectID:   strings.TrimSpace(cmd.ProjectID),
		CreatorID:   strings.TrimSpace(cmd.ActorID),
		Status:      entities.StatusOpen,
		CreatedAt:   now,
	}
	options := make([]entities.Option, 0, len(texts))
	for _, text := range texts {
		optionID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.SubjectVote{}, nil, err
		}
		options = append(options, entities.Option{
			OptionID: optionID,
			VoteID:   voteID,
			Text:     text,
		})
	}

	if err := uc.Votes.CreateSubjectVote(ctx, vote, options); err != nil {
		return entities.SubjectVote{}, nil, err
	}
	if err := uc.appendVoteEvent(ctx, "resolution.vote.created", vote, now, map[string]any{
		"option_count": len(options),
	}); err != nil {
		return entities.SubjectVote{}, nil, err
	}

	logger.Info("subject vote created",
		"event", "resolution_vote_created",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"vote_id", vote.VoteID,
		"creator_id", vote.CreatorID,
		"option_count", len(options),
	)
	return vote, options, nil
}

// Cast enforces the one-ballot-per-principal invariant: a first cast inserts a
// ballot, a repeat cast moves it, and re-casting the currently chosen option
// is a no-op on the tally.
func (uc SubjectVoteUseCase) Cast(ctx context.Context, cmd CastBallotCommand) (CastBallotResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" || strings.TrimSpace(cmd.VoteID) == "" || strings.TrimSpace(cmd.OptionID) == "" {
		return CastBallotResult{}, domainerrors.ErrInvalidInput
	}

	vote, err := uc.Votes.GetSubjectVote(ctx, cmd.VoteID)
	if err != nil {
		return CastBallotResult{}, err
	}
	if vote.Status != entities.StatusOpen {
		return CastBallotResult{}, domainerrors.ErrResolutionClosed
	}

	option, err := uc.Votes.GetOption(ctx, cmd.OptionID)
	if err != nil {
		return CastBallotResult{}, err
	}
	if option.VoteID != vote.VoteID {
		return CastBallotResult{}, domainerrors.ErrOptionMismatch
	}

	now := uc.now()
	existing, found, err := uc.Votes.GetBallot(ctx, vote.VoteID, cmd.ActorID)
	if err != nil {
		return CastBallotResult{}, err
	}
	if !found {
		ballotID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CastBallotResult{}, err
		}
		ballot := entities.Ballot{
			BallotID:  ballotID,
			VoteID:    vote.VoteID,
			OptionID:  option.OptionID,
			UserID:    strings.TrimSpace(cmd.ActorID),
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = uc.Votes.ApplyBallot(ctx, ballot, "")
		if errors.Is(err, domainerrors.ErrBallotExists) {
			// Lost a concurrent first-cast race; re-read and fall through to
			// the move path so the caller still gets a consistent outcome.
			existing, found, err = uc.Votes.GetBallot(ctx, vote.VoteID, cmd.ActorID)
			if err != nil {
				return CastBallotResult{}, err
			}
			if !found {
				return CastBallotResult{}, domainerrors.ErrBallotExists
			}
		} else if err != nil {
			return CastBallotResult{}, err
		} else {
			logger.Info("ballot cast",
				"event", "resolution_ballot_cast",
				"module", "community-governance/resolution-engine",
				"layer", "application",
				"vote_id", vote.VoteID,
				"option_id", option.OptionID,
				"user_id", ballot.UserID,
			)
			if err := uc.appendVoteEvent(ctx, "resolution.ballot.cast", vote, now, map[string]any{
				"option_id": option.OptionID,
				"user_id":   ballot.UserID,
			}); err != nil {
				return CastBallotResult{}, err
			}
			return CastBallotResult{Ballot: ballot}, nil
		}
	}

	if existing.OptionID == option.OptionID {
		// Repeat of the identical choice; counters are already right.
		return CastBallotResult{Ballot: existing}, nil
	}

	previousOptionID := existing.OptionID
	existing.OptionID = option.OptionID
	existing.UpdatedAt = now
	if err := uc.Votes.ApplyBallot(ctx, existing, previousOptionID); err != nil {
		return CastBallotResult{}, err
	}
	logger.Info("ballot moved",
		"event", "resolution_ballot_moved",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"vote_id", vote.VoteID,
		"from_option_id", previousOptionID,
		"to_option_id", option.OptionID,
		"user_id", existing.UserID,
	)
	if err := uc.appendVoteEvent(ctx, "resolution.ballot.cast", vote, now, map[string]any{
		"option_id":      option.OptionID,
		"from_option_id": previousOptionID,
		"user_id":        existing.UserID,
	}); err != nil {
		return CastBallotResult{}, err
	}
	return CastBallotResult{Ballot: existing, Moved: true}, nil
}

// Close transitions an open vote to closed and derives the winner from the
// tally. A tie leaves the winner unset; the transition is terminal either way.
func (uc SubjectVoteUseCase) Close(ctx context.Context, cmd CloseSubjectVoteCommand) (entities.SubjectVote, error) {
	logger := application.ResolveLogger(uc.Logger)
	vote, err := uc.Votes.GetSubjectVote(ctx, cmd.VoteID)
	if err != nil {
		return entities.SubjectVote{}, err
	}
	if vote.CreatorID != strings.TrimSpace(cmd.ActorID) && !cmd.ActorIsStaff {
		return entities.SubjectVote{}, domainerrors.ErrForbidden
	}
	if vote.Status != entities.StatusOpen {
		return entities.SubjectVote{}, domainerrors.ErrResolutionClosed
	}

	options, err := uc.Votes.ListOptions(ctx, vote.VoteID)
	if err != nil {
		return entities.SubjectVote{}, err
	}

	now := uc.now()
	vote.Status = entities.StatusClosed
	vote.WinningOptionID = winningOptionID(options)
	vote.ClosedAt = &now
	if err := uc.Votes.SaveSubjectVote(ctx, vote); err != nil {
		return entities.SubjectVote{}, err
	}
	if err := uc.appendVoteEvent(ctx, "resolution.vote.closed", vote, now, map[string]any{
		"winning_option_id": vote.WinningOptionID,
	}); err != nil {
		return entities.SubjectVote{}, err
	}

	logger.Info("subject vote closed",
		"event", "resolution_vote_closed",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"vote_id", vote.VoteID,
		"winning_option_id", vote.WinningOptionID,
		"closed_by", cmd.ActorID,
	)
	return vote, nil
}

// StaffDecide applies the override path: final, tally-independent, and valid
// from any current status including an already-closed vote.
func (uc SubjectVoteUseCase) StaffDecide(ctx context.Context, cmd StaffDecideSubjectVoteCommand) (entities.SubjectVote, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.ActorIsStaff {
		return entities.SubjectVote{}, domainerrors.ErrStaffOnly
	}

	vote, err := uc.Votes.GetSubjectVote(ctx, cmd.VoteID)
	if err != nil {
		return entities.SubjectVote{}, err
	}
	option, err := uc.Votes.GetOption(ctx, cmd.WinningOptionID)
	if err != nil {
		return entities.SubjectVote{}, err
	}
	if option.VoteID != vote.VoteID {
		return entities.SubjectVote{}, domainerrors.ErrOptionMismatch
	}

	now := uc.now()
	vote.Status = entities.StatusStaffDecided
	vote.WinningOptionID = option.OptionID
	vote.StaffDecision = &entities.StaffDecision{
		By:     strings.TrimSpace(cmd.ActorID),
		Reason: strings.TrimSpace(cmd.Reason),
	}
	if vote.ClosedAt == nil {
		vote.ClosedAt = &now
	}
	if err := uc.Votes.SaveSubjectVote(ctx, vote); err != nil {
		return entities.SubjectVote{}, err
	}
	if err := uc.appendVoteEvent(ctx, "resolution.vote.staff_decided", vote, now, map[string]any{
		"winning_option_id": vote.WinningOptionID,
		"decided_by":        cmd.ActorID,
	}); err != nil {
		return entities.SubjectVote{}, err
	}

	logger.Info("subject vote staff decided",
		"event", "resolution_vote_staff_decided",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"vote_id", vote.VoteID,
		"winning_option_id", vote.WinningOptionID,
		"decided_by", cmd.ActorID,
	)
	return vote, nil
}

// Edit partially updates title/description. Creator only, open votes only.
func (uc SubjectVoteUseCase) Edit(ctx context.Context, cmd EditSubjectVoteCommand) (entities.SubjectVote, error) {
	vote, err := uc.Votes.GetSubjectVote(ctx, cmd.VoteID)
	if err != nil {
		return entities.SubjectVote{}, err
	}
	if vote.CreatorID != strings.TrimSpace(cmd.ActorID) {
		return entities.SubjectVote{}, domainerrors.ErrForbidden
	}
	if vote.Status != entities.StatusOpen {
		return entities.SubjectVote{}, domainerrors.ErrResolutionClosed
	}

	if strings.TrimSpace(cmd.Title) != "" {
		vote.Title = strings.TrimSpace(cmd.Title)
	}
	if strings.TrimSpace(cmd.Description) != "" {
		vote.Description = strings.TrimSpace(cmd.Description)
	}
	if err := uc.Votes.SaveSubjectVote(ctx, vote); err != nil {
		return entities.SubjectVote{}, err
	}
	return vote, nil
}

// Delete removes the vote and cascades its options and ballots. Staff only.
func (uc SubjectVoteUseCase) Delete(ctx context.Context, cmd DeleteSubjectVoteCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.ActorIsStaff {
		return domainerrors.ErrStaffOnly
	}
	vote, err := uc.Votes.GetSubjectVote(ctx, cmd.VoteID)
	if err != nil {
		return err
	}
	if err := uc.Votes.DeleteSubjectVote(ctx, vote.VoteID); err != nil {
		return err
	}
	now := uc.now()
	if err := uc.appendVoteEvent(ctx, "resolution.vote.deleted", vote, now, map[string]any{
		"deleted_by": cmd.ActorID,
	}); err != nil {
		return err
	}
	logger.Info("subject vote deleted",
		"event", "resolution_vote_deleted",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"vote_id", vote.VoteID,
		"deleted_by", cmd.ActorID,
	)
	return nil
}

func (uc SubjectVoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc SubjectVoteUseCase) appendVoteEvent(
	ctx context.Context,
	eventType string,
	vote entities.SubjectVote,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"vote_id":     vote.VoteID,
		"project_id":  vote.ProjectID,
		"status":      string(vote.Status),
		"occurred_at": occurredAt.Format(time.RFC3339),
	}
	for key, value := range data {
		payload[key] = value
	}
	envelope, err := newResolutionEnvelope(eventID, eventType, vote.VoteID, occurredAt, payload)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

// winningOptionID picks the option with a strict maximum count. Any tie for
// the maximum yields no winner.
func winningOptionID(options []entities.Option) string {
	best := ""
	bestCount := -1
	tied := false
	for _, option := range options {
		switch {
		case option.VoteCount > bestCount:
			best = option.OptionID
			bestCount = option.VoteCount
			tied = false
		case option.VoteCount == bestCount:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return best
}

func distinctOptionTexts(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	texts := make([]string, 0, len(raw))
	for _, text := range raw {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		texts = append(texts, trimmed)
	}
	return texts
}
