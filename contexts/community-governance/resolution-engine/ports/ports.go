package ports

import (
	"context"
	"encoding/json"
	"time"

	"admiral/contexts/community-governance/resolution-engine/domain/entities"
)

// SubjectVoteFilter narrows list reads. Zero values match everything.
type SubjectVoteFilter struct {
	ProjectID string
	Status    entities.ResolutionStatus
}

// SubjectVoteRepository persists subject votes, their options, and ballots.
// CreateSubjectVote and ApplyBallot are transactional units: either every row
// and counter change lands, or none does.
type SubjectVoteRepository interface {
	CreateSubjectVote(ctx context.Context, vote entities.SubjectVote, options []entities.Option) error
	SaveSubjectVote(ctx context.Context, vote entities.SubjectVote) error
	GetSubjectVote(ctx context.Context, voteID string) (entities.SubjectVote, error)
	ListSubjectVotes(ctx context.Context, filter SubjectVoteFilter) ([]entities.SubjectVote, error)
	DeleteSubjectVote(ctx context.Context, voteID string) error

	GetOption(ctx context.Context, optionID string) (entities.Option, error)
	ListOptions(ctx context.Context, voteID string) ([]entities.Option, error)
	SaveOptionCount(ctx context.Context, optionID string, count int) error

	GetBallot(ctx context.Context, voteID string, userID string) (entities.Ballot, bool, error)
	ListBallots(ctx context.Context, voteID string) ([]entities.Ballot, error)
	// ApplyBallot repoints (previousOptionID != "") or inserts (previousOptionID
	// == "") the ballot and adjusts the affected option counters in one
	// transaction. A concurrent first-time insert for the same principal
	// surfaces domain ErrBallotExists.
	ApplyBallot(ctx context.Context, ballot entities.Ballot, previousOptionID string) error
}

type DisputeFilter struct {
	ProjectID string
	Status    entities.ResolutionStatus
}

type DisputeRepository interface {
	CreateDispute(ctx context.Context, dispute entities.Dispute) error
	SaveDispute(ctx context.Context, dispute entities.Dispute) error
	GetDispute(ctx context.Context, disputeID string) (entities.Dispute, error)
	ListDisputes(ctx context.Context, filter DisputeFilter) ([]entities.Dispute, error)
	DeleteDispute(ctx context.Context, disputeID string) error
	SaveDisputeCounters(ctx context.Context, disputeID string, correctorVotes int, correctedVotes int) error

	GetDisputeBallot(ctx context.Context, disputeID string, userID string) (entities.DisputeBallot, bool, error)
	ListDisputeBallots(ctx context.Context, disputeID string) ([]entities.DisputeBallot, error)
	// ApplyDisputeBallot mirrors ApplyBallot: previousSide == "" inserts,
	// otherwise the ballot moves and both side counters shift by one.
	ApplyDisputeBallot(ctx context.Context, ballot entities.DisputeBallot, previousSide entities.DisputeSide) error
}

// UserProjection is the slice of the identity context's user record the
// resolution engine reads. The engine never writes users.
type UserProjection struct {
	UserID  string
	Login   string
	IsStaff bool
}

type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (UserProjection, error)
	GetUserByLogin(ctx context.Context, login string) (UserProjection, error)
}

// EventEnvelope is the canonical event shape appended to the outbox.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
