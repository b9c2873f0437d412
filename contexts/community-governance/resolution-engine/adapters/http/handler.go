package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"admiral/contexts/community-governance/resolution-engine/application/commands"
	"admiral/contexts/community-governance/resolution-engine/application/queries"
	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	"admiral/contexts/community-governance/resolution-engine/ports"
	httptransport "admiral/contexts/community-governance/resolution-engine/transport/http"
)

// Handler maps transport DTOs onto application commands and queries. It holds
// no HTTP concerns of its own; routing and status codes live in the platform
// server.
type Handler struct {
	Votes        commands.SubjectVoteUseCase
	Disputes     commands.DisputeUseCase
	VoteQueries  queries.SubjectVoteQueries
	DisputeViews queries.DisputeQueries
	Logger       *slog.Logger
}

func (h Handler) CreateSubjectVoteHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateSubjectVoteRequest,
) (httptransport.SubjectVoteResponse, error) {
	vote, options, err := h.Votes.Create(ctx, commands.CreateSubjectVoteCommand{
		ActorID:     actorID,
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Options:     req.Options,
	})
	if err != nil {
		return httptransport.SubjectVoteResponse{}, err
	}
	return subjectVoteResponse(vote, options), nil
}

func (h Handler) ListSubjectVotesHandler(
	ctx context.Context,
	projectID string,
	status string,
) (httptransport.SubjectVoteListResponse, error) {
	votes, err := h.VoteQueries.List(ctx, ports.SubjectVoteFilter{
		ProjectID: projectID,
		Status:    entities.ResolutionStatus(status),
	})
	if err != nil {
		return httptransport.SubjectVoteListResponse{}, err
	}
	items := make([]httptransport.SubjectVoteResponse, 0, len(votes))
	for _, vote := range votes {
		items = append(items, subjectVoteResponse(vote, nil))
	}
	return httptransport.SubjectVoteListResponse{Items: items}, nil
}

func (h Handler) GetSubjectVoteHandler(ctx context.Context, voteID string) (httptransport.SubjectVoteResponse, error) {
	vote, options, err := h.VoteQueries.Get(ctx, voteID)
	if err != nil {
		return httptransport.SubjectVoteResponse{}, err
	}
	return subjectVoteResponse(vote, options), nil
}

func (h Handler) CastBallotHandler(
	ctx context.Context,
	actorID string,
	voteID string,
	req httptransport.CastBallotRequest,
) (httptransport.BallotResponse, error) {
	result, err := h.Votes.Cast(ctx, commands.CastBallotCommand{
		ActorID:  actorID,
		VoteID:   voteID,
		OptionID: req.OptionID,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		BallotID: result.Ballot.BallotID,
		VoteID:   result.Ballot.VoteID,
		OptionID: result.Ballot.OptionID,
		Moved:    result.Moved,
	}, nil
}

func (h Handler) CloseSubjectVoteHandler(
	ctx context.Context,
	actorID string,
	actorIsStaff bool,
	voteID string,
) (httptransport.SubjectVoteResponse, error) {
	vote, err := h.Votes.Close(ctx, commands.CloseSubjectVoteCommand{
		ActorID:      actorID,
		ActorIsStaff: actorIsStaff,
		VoteID:       voteID,
	})
	if err != nil {
		return httptransport.SubjectVoteResponse{}, err
	}
	return subjectVoteResponse(vote, nil), nil
}

func (h Handler) StaffDecideSubjectVoteHandler(
	ctx context.Context,
	actorID string,
	actorIsStaff bool,
	voteID string,
	req httptransport.StaffDecideSubjectVoteRequest,
) (httptransport.SubjectVoteResponse, error) {
	vote, err := h.Votes.StaffDecide(ctx, commands.StaffDecideSubjectVoteCommand{
		ActorID:         actorID,
		ActorIsStaff:    actorIsStaff,
		VoteID:          voteID,
		WinningOptionID: req.WinningOptionID,
		Reason:          req.Reason,
	})
	if err != nil {
		return httptransport.SubjectVoteResponse{}, err
	}
	return subjectVoteResponse(vote, nil), nil
}

func (h Handler) EditSubjectVoteHandler(
	ctx context.Context,
	actorID string,
	voteID string,
	req httptransport.EditSubjectVoteRequest,
) (httptransport.SubjectVoteResponse, error) {
	vote, err := h.Votes.Edit(ctx, commands.EditSubjectVoteCommand{
		ActorID:     actorID,
		VoteID:      voteID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.SubjectVoteResponse{}, err
	}
	return subjectVoteResponse(vote, nil), nil
}

func (h Handler) DeleteSubjectVoteHandler(ctx context.Context, actorID string, actorIsStaff bool, voteID string) error {
	return h.Votes.Delete(ctx, commands.DeleteSubjectVoteCommand{
		ActorID:      actorID,
		ActorIsStaff: actorIsStaff,
		VoteID:       voteID,
	})
}

func (h Handler) CreateDisputeHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateDisputeRequest,
) (httptransport.DisputeResponse, error) {
	dispute, err := h.Disputes.Create(ctx, commands.CreateDisputeCommand{
		ActorID:        actorID,
		Title:          req.Title,
		Description:    req.Description,
		ProjectID:      req.ProjectID,
		CorrectorLogin: req.CorrectorLogin,
		CorrectedLogin: req.CorrectedLogin,
	})
	if err != nil {
		return httptransport.DisputeResponse{}, err
	}
	return h.viewDispute(ctx, dispute, actorID)
}

func (h Handler) ListDisputesHandler(
	ctx context.Context,
	viewerID string,
	projectID string,
	status string,
) (httptransport.DisputeListResponse, error) {
	views, err := h.DisputeViews.List(ctx, ports.DisputeFilter{
		ProjectID: projectID,
		Status:    entities.ResolutionStatus(status),
	}, viewerID)
	if err != nil {
		return httptransport.DisputeListResponse{}, err
	}
	items := make([]httptransport.DisputeResponse, 0, len(views))
	for _, view := range views {
		items = append(items, disputeResponse(view))
	}
	return httptransport.DisputeListResponse{Items: items}, nil
}

func (h Handler) GetDisputeHandler(ctx context.Context, viewerID string, disputeID string) (httptransport.DisputeResponse, error) {
	view, err := h.DisputeViews.Get(ctx, disputeID, viewerID)
	if err != nil {
		return httptransport.DisputeResponse{}, err
	}
	return disputeResponse(view), nil
}

func (h Handler) DisputeVoteHandler(
	ctx context.Context,
	actorID string,
	disputeID string,
	req httptransport.DisputeVoteRequest,
) (httptransport.DisputeResponse, error) {
	dispute, err := h.Disputes.Vote(ctx, commands.DisputeVoteCommand{
		ActorID:   actorID,
		DisputeID: disputeID,
		Side:      entities.DisputeSide(req.Side),
	})
	if err != nil {
		return httptransport.DisputeResponse{}, err
	}
	return h.viewDispute(ctx, dispute, actorID)
}

func (h Handler) CloseDisputeHandler(
	ctx context.Context,
	actorID string,
	actorIsStaff bool,
	disputeID string,
) (httptransport.DisputeResponse, error) {
	dispute, err := h.Disputes.Close(ctx, commands.CloseDisputeCommand{
		ActorID:      actorID,
		ActorIsStaff: actorIsStaff,
		DisputeID:    disputeID,
	})
	if err != nil {
		return httptransport.DisputeResponse{}, err
	}
	return h.viewDispute(ctx, dispute, actorID)
}

func (h Handler) StaffDecideDisputeHandler(
	ctx context.Context,
	actorID string,
	actorIsStaff bool,
	disputeID string,
	req httptransport.StaffDecideDisputeRequest,
) (httptransport.DisputeResponse, error) {
	dispute, err := h.Disputes.StaffDecide(ctx, commands.StaffDecideDisputeCommand{
		ActorID:      actorID,
		ActorIsStaff: actorIsStaff,
		DisputeID:    disputeID,
		Winner:       entities.DisputeSide(req.Winner),
		Reason:       req.Reason,
	})
	if err != nil {
		return httptransport.DisputeResponse{}, err
	}
	return h.viewDispute(ctx, dispute, actorID)
}

func (h Handler) EditDisputeHandler(
	ctx context.Context,
	actorID string,
	disputeID string,
	req httptransport.EditDisputeRequest,
) (httptransport.DisputeResponse, error) {
	dispute, err := h.Disputes.Edit(ctx, commands.EditDisputeCommand{
		ActorID:     actorID,
		DisputeID:   disputeID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.DisputeResponse{}, err
	}
	return h.viewDispute(ctx, dispute, actorID)
}

func (h Handler) DeleteDisputeHandler(ctx context.Context, actorID string, actorIsStaff bool, disputeID string) error {
	return h.Disputes.Delete(ctx, commands.DeleteDisputeCommand{
		ActorID:      actorID,
		ActorIsStaff: actorIsStaff,
		DisputeID:    disputeID,
	})
}

// viewDispute reprojects a freshly mutated dispute through the read-side
// visibility rule so command responses match what a subsequent GET returns.
func (h Handler) viewDispute(ctx context.Context, dispute entities.Dispute, viewerID string) (httptransport.DisputeResponse, error) {
	view, err := h.DisputeViews.Get(ctx, dispute.DisputeID, viewerID)
	if err != nil {
		return httptransport.DisputeResponse{}, err
	}
	return disputeResponse(view), nil
}

func subjectVoteResponse(vote entities.SubjectVote, options []entities.Option) httptransport.SubjectVoteResponse {
	resp := httptransport.SubjectVoteResponse{
		VoteID:          vote.VoteID,
		Title:           vote.Title,
		Description:     vote.Description,
		ProjectID:       vote.ProjectID,
		CreatorID:       vote.CreatorID,
		Status:          string(vote.Status),
		WinningOptionID: vote.WinningOptionID,
		CreatedAt:       vote.CreatedAt.UTC().Format(time.RFC3339),
	}
	if vote.ClosedAt != nil {
		resp.ClosedAt = vote.ClosedAt.UTC().Format(time.RFC3339)
	}
	if vote.StaffDecision != nil {
		resp.StaffDecision = &httptransport.StaffDecisionResponse{
			By:     vote.StaffDecision.By,
			Reason: vote.StaffDecision.Reason,
		}
	}
	if len(options) > 0 {
		resp.Options = make([]httptransport.OptionResponse, 0, len(options))
		for _, option := range options {
			resp.Options = append(resp.Options, httptransport.OptionResponse{
				OptionID:  option.OptionID,
				Text:      option.Text,
				VoteCount: option.VoteCount,
			})
		}
	}
	return resp
}

func disputeResponse(view queries.DisputeView) httptransport.DisputeResponse {
	dispute := view.Dispute
	resp := httptransport.DisputeResponse{
		DisputeID:         dispute.DisputeID,
		Title:             dispute.Title,
		Description:       dispute.Description,
		ProjectID:         dispute.ProjectID,
		CreatorID:         dispute.CreatorID,
		Status:            string(dispute.Status),
		Winner:            string(dispute.Winner),
		CorrectorVotes:    dispute.CorrectorVotes,
		CorrectedVotes:    dispute.CorrectedVotes,
		CorrectorUsername: view.CorrectorUsername,
		CorrectedUsername: view.CorrectedUsername,
		CreatedAt:         dispute.CreatedAt.UTC().Format(time.RFC3339),
	}
	if dispute.ClosedAt != nil {
		resp.ClosedAt = dispute.ClosedAt.UTC().Format(time.RFC3339)
	}
	if dispute.StaffDecision != nil {
		resp.StaffDecision = &httptransport.StaffDecisionResponse{
			By:     dispute.StaffDecision.By,
			Reason: dispute.StaffDecision.Reason,
		}
	}
	return resp
}
