package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	domainerrors "admiral/contexts/community-governance/resolution-engine/domain/errors"
	"admiral/contexts/community-governance/resolution-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter used by tests and local wiring. A single
// mutex spans every operation, so each call is atomic the same way the
// postgres adapter's transactions are.
type Store struct {
	mu sync.RWMutex

	votes       map[string]entities.SubjectVote
	options     map[string]entities.Option
	optionOrder map[string][]string
	ballots     map[string]map[string]entities.Ballot // voteID -> userID -> ballot

	disputes       map[string]entities.Dispute
	disputeBallots map[string]map[string]entities.DisputeBallot

	users  map[string]ports.UserProjection
	outbox map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		votes:          make(map[string]entities.SubjectVote),
		options:        make(map[string]entities.Option),
		optionOrder:    make(map[string][]string),
		ballots:        make(map[string]map[string]entities.Ballot),
		disputes:       make(map[string]entities.Dispute),
		disputeBallots: make(map[string]map[string]entities.DisputeBallot),
		users:          make(map[string]ports.UserProjection),
		outbox:         make(map[string]outboxRecord),
	}
}

// SetUser seeds the user directory projection.
func (s *Store) SetUser(user ports.UserProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.TrimSpace(user.UserID)] = ports.UserProjection{
		UserID:  strings.TrimSpace(user.UserID),
		Login:   strings.TrimSpace(user.Login),
		IsStaff: user.IsStaff,
	}
}

func (s *Store) CreateSubjectVote(_ context.Context, vote entities.SubjectVote, options []entities.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[vote.VoteID] = vote
	order := make([]string, 0, len(options))
	for _, option := range options {
		s.options[option.OptionID] = option
		order = append(order, option.OptionID)
	}
	s.optionOrder[vote.VoteID] = order
	return nil
}

func (s *Store) SaveSubjectVote(_ context.Context, vote entities.SubjectVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[vote.VoteID] = vote
	return nil
}

func (s *Store) GetSubjectVote(_ context.Context, voteID string) (entities.SubjectVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[strings.TrimSpace(voteID)]
	if !ok {
		return entities.SubjectVote{}, domainerrors.ErrVoteNotFound
	}
	return vote, nil
}

func (s *Store) ListSubjectVotes(_ context.Context, filter ports.SubjectVoteFilter) ([]entities.SubjectVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.SubjectVote, 0, len(s.votes))
	for _, vote := range s.votes {
		if filter.ProjectID != "" && vote.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && vote.Status != filter.Status {
			continue
		}
		items = append(items, vote)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].VoteID > items[j].VoteID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) DeleteSubjectVote(_ context.Context, voteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	voteID = strings.TrimSpace(voteID)
	if _, ok := s.votes[voteID]; !ok {
		return domainerrors.ErrVoteNotFound
	}
	for _, optionID := range s.optionOrder[voteID] {
		delete(s.options, optionID)
	}
	delete(s.optionOrder, voteID)
	delete(s.ballots, voteID)
	delete(s.votes, voteID)
	return nil
}

func (s *Store) GetOption(_ context.Context, optionID string) (entities.Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	option, ok := s.options[strings.TrimSpace(optionID)]
	if !ok {
		return entities.Option{}, domainerrors.ErrOptionNotFound
	}
	return option, nil
}

func (s *Store) ListOptions(_ context.Context, voteID string) ([]entities.Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.optionOrder[strings.TrimSpace(voteID)]
	items := make([]entities.Option, 0, len(order))
	for _, optionID := range order {
		if option, ok := s.options[optionID]; ok {
			items = append(items, option)
		}
	}
	return items, nil
}

func (s *Store) SaveOptionCount(_ context.Context, optionID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	option, ok := s.options[strings.TrimSpace(optionID)]
	if !ok {
		return domainerrors.ErrOptionNotFound
	}
	option.VoteCount = count
	s.options[option.OptionID] = option
	return nil
}

func (s *Store) GetBallot(_ context.Context, voteID string, userID string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.ballots[strings.TrimSpace(voteID)][strings.TrimSpace(userID)]
	return ballot, ok, nil
}

func (s *Store) ListBallots(_ context.Context, voteID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byUser := s.ballots[strings.TrimSpace(voteID)]
	items := make([]entities.Ballot, 0, len(byUser))
	for _, ballot := range byUser {
		items = append(items, ballot)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].BallotID < items[j].BallotID
	})
	return items, nil
}

func (s *Store) ApplyBallot(_ context.Context, ballot entities.Ballot, previousOptionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser, ok := s.ballots[ballot.VoteID]
	if !ok {
		byUser = make(map[string]entities.Ballot)
		s.ballots[ballot.VoteID] = byUser
	}

	if previousOptionID == "" {
		if _, exists := byUser[ballot.UserID]; exists {
			return domainerrors.ErrBallotExists
		}
		byUser[ballot.UserID] = ballot
		s.adjustCount(ballot.OptionID, +1)
		return nil
	}

	existing, exists := byUser[ballot.UserID]
	if !exists {
		return domainerrors.ErrBallotNotFound
	}
	if existing.OptionID != previousOptionID {
		// Another writer moved the ballot first; the counters already reflect
		// the newer state, so this stale move must not touch them.
		return domainerrors.ErrBallotExists
	}
	byUser[ballot.UserID] = ballot
	s.adjustCount(previousOptionID, -1)
	s.adjustCount(ballot.OptionID, +1)
	return nil
}

func (s *Store) adjustCount(optionID string, delta int) {
	option, ok := s.options[optionID]
	if !ok {
		return
	}
	option.VoteCount += delta
	s.options[optionID] = option
}

func (s *Store) CreateDispute(_ context.Context, dispute entities.Dispute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disputes[dispute.DisputeID] = dispute
	return nil
}

func (s *Store) SaveDispute(_ context.Context, dispute entities.Dispute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.disputes[dispute.DisputeID]
	if !ok {
		return domainerrors.ErrDisputeNotFound
	}
	// Counters move only through ApplyDisputeBallot; row saves carry the
	// lifecycle fields.
	dispute.CorrectorVotes = stored.CorrectorVotes
	dispute.CorrectedVotes = stored.CorrectedVotes
	s.disputes[dispute.DisputeID] = dispute
	return nil
}

func (s *Store) GetDispute(_ context.Context, disputeID string) (entities.Dispute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dispute, ok := s.disputes[strings.TrimSpace(disputeID)]
	if !ok {
		return entities.Dispute{}, domainerrors.ErrDisputeNotFound
	}
	return dispute, nil
}

func (s *Store) ListDisputes(_ context.Context, filter ports.DisputeFilter) ([]entities.Dispute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Dispute, 0, len(s.disputes))
	for _, dispute := range s.disputes {
		if filter.ProjectID != "" && dispute.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && dispute.Status != filter.Status {
			continue
		}
		items = append(items, dispute)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].DisputeID > items[j].DisputeID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) DeleteDispute(_ context.Context, disputeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	disputeID = strings.TrimSpace(disputeID)
	if _, ok := s.disputes[disputeID]; !ok {
		return domainerrors.ErrDisputeNotFound
	}
	delete(s.disputeBallots, disputeID)
	delete(s.disputes, disputeID)
	return nil
}

func (s *Store) SaveDisputeCounters(_ context.Context, disputeID string, correctorVotes int, correctedVotes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dispute, ok := s.disputes[strings.TrimSpace(disputeID)]
	if !ok {
		return domainerrors.ErrDisputeNotFound
	}
	dispute.CorrectorVotes = correctorVotes
	dispute.CorrectedVotes = correctedVotes
	s.disputes[dispute.DisputeID] = dispute
	return nil
}

func (s *Store) GetDisputeBallot(_ context.Context, disputeID string, userID string) (entities.DisputeBallot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.disputeBallots[strings.TrimSpace(disputeID)][strings.TrimSpace(userID)]
	return ballot, ok, nil
}

func (s *Store) ListDisputeBallots(_ context.Context, disputeID string) ([]entities.DisputeBallot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byUser := s.disputeBallots[strings.TrimSpace(disputeID)]
	items := make([]entities.DisputeBallot, 0, len(byUser))
	for _, ballot := range byUser {
		items = append(items, ballot)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].BallotID < items[j].BallotID
	})
	return items, nil
}

func (s *Store) ApplyDisputeBallot(_ context.Context, ballot entities.DisputeBallot, previousSide entities.DisputeSide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dispute, ok := s.disputes[ballot.DisputeID]
	if !ok {
		return domainerrors.ErrDisputeNotFound
	}
	byUser, ok := s.disputeBallots[ballot.DisputeID]
	if !ok {
		byUser = make(map[string]entities.DisputeBallot)
		s.disputeBallots[ballot.DisputeID] = byUser
	}

	if previousSide == "" {
		if _, exists := byUser[ballot.UserID]; exists {
			return domainerrors.ErrBallotExists
		}
		byUser[ballot.UserID] = ballot
		dispute = adjustSide(dispute, ballot.Side, +1)
		s.disputes[dispute.DisputeID] = dispute
		return nil
	}

	existing, exists := byUser[ballot.UserID]
	if !exists {
		return domainerrors.ErrBallotNotFound
	}
	if existing.Side != previousSide {
		return domainerrors.ErrBallotExists
	}
	byUser[ballot.UserID] = ballot
	dispute = adjustSide(dispute, previousSide, -1)
	dispute = adjustSide(dispute, ballot.Side, +1)
	s.disputes[dispute.DisputeID] = dispute
	return nil
}

func adjustSide(dispute entities.Dispute, side entities.DisputeSide, delta int) entities.Dispute {
	switch side {
	case entities.SideCorrector:
		dispute.CorrectorVotes += delta
	case entities.SideCorrected:
		dispute.CorrectedVotes += delta
	}
	return dispute
}

func (s *Store) GetUserByID(_ context.Context, userID string) (ports.UserProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[strings.TrimSpace(userID)]
	if !ok {
		return ports.UserProjection{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByLogin(_ context.Context, login string) (ports.UserProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Login, strings.TrimSpace(login)) {
			return user, nil
		}
	}
	return ports.UserProjection{}, domainerrors.ErrUserNotFound
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := envelopePayload(envelope)
	if err != nil {
		return err
	}
	s.outbox[envelope.EventID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  envelope.EventID,
			EventType: envelope.EventType,
			Payload:   payload,
			CreatedAt: envelope.OccurredAt.UTC(),
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		items = append(items, record.message)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].OutboxID < items[j].OutboxID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrInvalidInput
	}
	record.published = true
	s.outbox[outboxID] = record
	return nil
}

func envelopePayload(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.SubjectVoteRepository = (*Store)(nil)
var _ ports.DisputeRepository = (*Store)(nil)
var _ ports.UserDirectory = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
