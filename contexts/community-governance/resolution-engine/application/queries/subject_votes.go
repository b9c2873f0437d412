package queries

import (
	"context"
	"strings"

	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	"admiral/contexts/community-governance/resolution-engine/ports"
)

type SubjectVoteQueries struct {
	Votes ports.SubjectVoteRepository
}

// List returns votes newest first; filters are optional.
func (q SubjectVoteQueries) List(ctx context.Context, filter ports.SubjectVoteFilter) ([]entities.SubjectVote, error) {
	return q.Votes.ListSubjectVotes(ctx, filter)
}

// Get returns one vote together with its ordered options.
func (q SubjectVoteQueries) Get(ctx context.Context, voteID string) (entities.SubjectVote, []entities.Option, error) {
	vote, err := q.Votes.GetSubjectVote(ctx, strings.TrimSpace(voteID))
	if err != nil {
		return entities.SubjectVote{}, nil, err
	}
	options, err := q.Votes.ListOptions(ctx, vote.VoteID)
	if err != nil {
		return entities.SubjectVote{}, nil, err
	}
	return vote, options, nil
}
