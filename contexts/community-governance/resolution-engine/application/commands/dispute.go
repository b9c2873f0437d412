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

// CreateDisputeCommand opens a correction dispute between two named parties.
// Side references are logins resolved through the user directory.
type CreateDisputeCommand struct {
	ActorID        string
	Title          string
	Description    string
	ProjectID      string
	CorrectorLogin string
	CorrectedLogin string
}

type DisputeVoteCommand struct {
	ActorID   string
	DisputeID string
	Side      entities.DisputeSide
}

type CloseDisputeCommand struct {
	ActorID      string
	ActorIsStaff bool
	DisputeID    string
}

type StaffDecideDisputeCommand struct {
	ActorID      string
	ActorIsStaff bool
	DisputeID    string
	Winner       entities.DisputeSide
	Reason       string
}

type EditDisputeCommand struct {
	ActorID     string
	DisputeID   string
	Title       string
	Description string
}

type DeleteDisputeCommand struct {
	ActorID      string
	ActorIsStaff bool
	DisputeID    string
}

// DisputeUseCase owns the two-sided half of the resolution lifecycle. The
// state machine matches SubjectVoteUseCase; the tally is a fixed pair of side
// counters instead of N option counts.
type DisputeUseCase struct {
	Disputes ports.DisputeRepository
	Users    ports.UserDirectory
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc DisputeUseCase) Create(ctx context.Context, cmd CreateDisputeCommand) (entities.Dispute, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" || strings.TrimSpace(cmd.Title) == "" ||
		strings.TrimSpace(cmd.CorrectorLogin) == "" || strings.TrimSpace(cmd.CorrectedLogin) == "" {
		return entities.Dispute{}, domainerrors.ErrInvalidInput
	}

	corrector, err := uc.Users.GetUserByLogin(ctx, strings.TrimSpace(cmd.CorrectorLogin))
	if err != nil {
		return entities.Dispute{}, err
	}
	corrected, err := uc.Users.GetUserByLogin(ctx, strings.TrimSpace(cmd.CorrectedLogin))
	if err != nil {
		return entities.Dispute{}, err
	}

	now := uc.now()
	disputeID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Dispute{}, err
	}
	dispute := entities.Dispute{
		DisputeID:   disputeID,
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		ProjectID:   strings.TrimSpace(cmd.ProjectID),
		CorrectorID: corrector.UserID,
		CorrectedID: corrected.UserID,
		CreatorID:   strings.TrimSpace(cmd.ActorID),
		Status:      entities.StatusOpen,
		CreatedAt:   now,
	}
	if err := uc.Disputes.CreateDispute(ctx, dispute); err != nil {
		return entities.Dispute{}, err
	}
	if err := uc.appendDisputeEvent(ctx, "resolution.dispute.created", dispute, now, nil); err != nil {
		return entities.Dispute{}, err
	}

	logger.Info("dispute created",
		"event", "resolution_dispute_created",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"dispute_id", dispute.DisputeID,
		"creator_id", dispute.CreatorID,
		"project_id", dispute.ProjectID,
	)
	return dispute, nil
}

// Vote records the actor's side. Unlike subject-vote casting, re-submitting
// the side already held is rejected as invalid input; switching sides moves
// the ballot and shifts both counters by exactly one, atomically.
func (uc DisputeUseCase) Vote(ctx context.Context, cmd DisputeVoteCommand) (entities.Dispute, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Side.Valid() {
		return entities.Dispute{}, domainerrors.ErrInvalidSide
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Dispute{}, domainerrors.ErrInvalidInput
	}

	dispute, err := uc.Disputes.GetDispute(ctx, cmd.DisputeID)
	if err != nil {
		return entities.Dispute{}, err
	}
	if dispute.Status != entities.StatusOpen {
		return entities.Dispute{}, domainerrors.ErrResolutionClosed
	}

	now := uc.now()
	existing, found, err := uc.Disputes.GetDisputeBallot(ctx, dispute.DisputeID, cmd.ActorID)
	if err != nil {
		return entities.Dispute{}, err
	}
	if !found {
		ballotID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Dispute{}, err
		}
		ballot := entities.DisputeBallot{
			BallotID:  ballotID,
			DisputeID: dispute.DisputeID,
			UserID:    strings.TrimSpace(cmd.ActorID),
			Side:      cmd.Side,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = uc.Disputes.ApplyDisputeBallot(ctx, ballot, "")
		if errors.Is(err, domainerrors.ErrBallotExists) {
			// Concurrent first-vote race; re-read and continue as a switch.
			existing, found, err = uc.Disputes.GetDisputeBallot(ctx, dispute.DisputeID, cmd.ActorID)
			if err != nil {
				return entities.Dispute{}, err
			}
			if !found {
				return entities.Dispute{}, domainerrors.ErrBallotExists
			}
		} else if err != nil {
			return entities.Dispute{}, err
		} else {
			logger.Info("dispute ballot cast",
				"event", "resolution_dispute_ballot_cast",
				"module", "community-governance/resolution-engine",
				"layer", "application",
				"dispute_id", dispute.DisputeID,
				"side", string(cmd.Side),
				"user_id", ballot.UserID,
			)
			if err := uc.appendDisputeEvent(ctx, "resolution.dispute.ballot_cast", dispute, now, map[string]any{
				"side":    string(cmd.Side),
				"user_id": ballot.UserID,
			}); err != nil {
				return entities.Dispute{}, err
			}
			return uc.Disputes.GetDispute(ctx, dispute.DisputeID)
		}
	}

	if existing.Side == cmd.Side {
		return entities.Dispute{}, domainerrors.ErrSameSideVote
	}

	previousSide := existing.Side
	existing.Side = cmd.Side
	existing.UpdatedAt = now
	if err := uc.Disputes.ApplyDisputeBallot(ctx, existing, previousSide); err != nil {
		return entities.Dispute{}, err
	}
	logger.Info("dispute ballot moved",
		"event", "resolution_dispute_ballot_moved",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"dispute_id", dispute.DisputeID,
		"from_side", string(previousSide),
		"to_side", string(cmd.Side),
		"user_id", existing.UserID,
	)
	if err := uc.appendDisputeEvent(ctx, "resolution.dispute.ballot_cast", dispute, now, map[string]any{
		"side":      string(cmd.Side),
		"from_side": string(previousSide),
		"user_id":   existing.UserID,
	}); err != nil {
		return entities.Dispute{}, err
	}
	return uc.Disputes.GetDispute(ctx, dispute.DisputeID)
}

// Close derives the winner from the side counters; an exact tie leaves the
// winner unset. Creator or staff only, open disputes only.
func (uc DisputeUseCase) Close(ctx context.Context, cmd CloseDisputeCommand) (entities.Dispute, error) {
	logger := application.ResolveLogger(uc.Logger)
	dispute, err := uc.Disputes.GetDispute(ctx, cmd.DisputeID)
	if err != nil {
		return entities.Dispute{}, err
	}
	if dispute.CreatorID != strings.TrimSpace(cmd.ActorID) && !cmd.ActorIsStaff {
		return entities.Dispute{}, domainerrors.ErrForbidden
	}
	if dispute.Status != entities.StatusOpen {
		return entities.Dispute{}, domainerrors.ErrResolutionClosed
	}

	now := uc.now()
	dispute.Status = entities.StatusClosed
	dispute.Winner = dispute.TallyWinner()
	dispute.ClosedAt = &now
	if err := uc.Disputes.SaveDispute(ctx, dispute); err != nil {
		return entities.Dispute{}, err
	}
	if err := uc.appendDisputeEvent(ctx, "resolution.dispute.closed", dispute, now, map[string]any{
		"winner": string(dispute.Winner),
	}); err != nil {
		return entities.Dispute{}, err
	}

	logger.Info("dispute closed",
		"event", "resolution_dispute_closed",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"dispute_id", dispute.DisputeID,
		"winner", string(dispute.Winner),
		"closed_by", cmd.ActorID,
	)
	return dispute, nil
}

// StaffDecide is the override path; staff must name a winner and the decision
// is final from any current status.
func (uc DisputeUseCase) StaffDecide(ctx context.Context, cmd StaffDecideDisputeCommand) (entities.Dispute, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.ActorIsStaff {
		return entities.Dispute{}, domainerrors.ErrStaffOnly
	}
	if !cmd.Winner.Valid() {
		return entities.Dispute{}, domainerrors.ErrInvalidSide
	}

	dispute, err := uc.Disputes.GetDispute(ctx, cmd.DisputeID)
	if err != nil {
		return entities.Dispute{}, err
	}

	now := uc.now()
	dispute.Status = entities.StatusStaffDecided
	dispute.Winner = cmd.Winner
	dispute.StaffDecision = &entities.StaffDecision{
		By:     strings.TrimSpace(cmd.ActorID),
		Reason: strings.TrimSpace(cmd.Reason),
	}
	if dispute.ClosedAt == nil {
		dispute.ClosedAt = &now
	}
	if err := uc.Disputes.SaveDispute(ctx, dispute); err != nil {
		return entities.Dispute{}, err
	}
	if err := uc.appendDisputeEvent(ctx, "resolution.dispute.staff_decided", dispute, now, map[string]any{
		"winner":     string(dispute.Winner),
		"decided_by": cmd.ActorID,
	}); err != nil {
		return entities.Dispute{}, err
	}

	logger.Info("dispute staff decided",
		"event", "resolution_dispute_staff_decided",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"dispute_id", dispute.DisputeID,
		"winner", string(dispute.Winner),
		"decided_by", cmd.ActorID,
	)
	return dispute, nil
}

func (uc DisputeUseCase) Edit(ctx context.Context, cmd EditDisputeCommand) (entities.Dispute, error) {
	dispute, err := uc.Disputes.GetDispute(ctx, cmd.DisputeID)
	if err != nil {
		return entities.Dispute{}, err
	}
	if dispute.CreatorID != strings.TrimSpace(cmd.ActorID) {
		return entities.Dispute{}, domainerrors.ErrForbidden
	}
	if dispute.Status != entities.StatusOpen {
		return entities.Dispute{}, domainerrors.ErrResolutionClosed
	}

	if strings.TrimSpace(cmd.Title) != "" {
		dispute.Title = strings.TrimSpace(cmd.Title)
	}
	if strings.TrimSpace(cmd.Description) != "" {
		dispute.Description = strings.TrimSpace(cmd.Description)
	}
	if err := uc.Disputes.SaveDispute(ctx, dispute); err != nil {
		return entities.Dispute{}, err
	}
	return dispute, nil
}

func (uc DisputeUseCase) Delete(ctx context.Context, cmd DeleteDisputeCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.ActorIsStaff {
		return domainerrors.ErrStaffOnly
	}
	dispute, err := uc.Disputes.GetDispute(ctx, cmd.DisputeID)
	if err != nil {
		return err
	}
	if err := uc.Disputes.DeleteDispute(ctx, dispute.DisputeID); err != nil {
		return err
	}
	now := uc.now()
	if err := uc.appendDisputeEvent(ctx, "resolution.dispute.deleted", dispute, now, map[string]any{
		"deleted_by": cmd.ActorID,
	}); err != nil {
		return err
	}
	logger.Info("dispute deleted",
		"event", "resolution_dispute_deleted",
		"module", "community-governance/resolution-engine",
		"layer", "application",
		"dispute_id", dispute.DisputeID,
		"deleted_by", cmd.ActorID,
	)
	return nil
}

func (uc DisputeUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc DisputeUseCase) appendDisputeEvent(
	ctx context.Context,
	eventType string,
	dispute entities.Dispute,
	occurredAt time.Time,
	data map[string]any,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"dispute_id":  dispute.DisputeID,
		"project_id":  dispute.ProjectID,
		"status":      string(dispute.Status),
		"occurred_at": occurredAt.Format(time.RFC3339),
	}
	for key, value := range data {
		payload[key] = value
	}
	envelope, err := newResolutionEnvelope(eventID, eventType, dispute.DisputeID, occurredAt, payload)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
