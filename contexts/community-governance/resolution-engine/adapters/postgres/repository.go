package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	domainerrors "admiral/contexts/community-governance/resolution-engine/domain/errors"
	"admiral/contexts/community-governance/resolution-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateSubjectVote(ctx context.Context, vote entities.SubjectVote, options []entities.Option) error {
	row := subjectVoteModelFromEntity(vote)
	optionRows := make([]voteOptionModel, 0, len(options))
	for position, option := range options {
		optionRows = append(optionRows, voteOptionModel{
			ID:        strings.TrimSpace(option.OptionID),
			VoteID:    row.ID,
			Text:      option.Text,
			VoteCount: option.VoteCount,
			Position:  position,
		})
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&optionRows).Error
	})
	if err != nil {
		return r.logError("resolution_repo_create_vote_failed", err,
			"vote_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) SaveSubjectVote(ctx context.Context, vote entities.SubjectVote) error {
	row := subjectVoteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":                 row.Title,
			"description":           row.Description,
			"status":                row.Status,
			"winning_option_id":     row.WinningOptionID,
			"staff_decision_by":     row.StaffDecisionBy,
			"staff_decision_reason": row.StaffDecisionReason,
			"closed_at":             row.ClosedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("resolution_repo_save_vote_failed", create.Error,
			"vote_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetSubjectVote(ctx context.Context, voteID string) (entities.SubjectVote, error) {
	var row subjectVoteModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SubjectVote{}, domainerrors.ErrVoteNotFound
		}
		return entities.SubjectVote{}, r.logError("resolution_repo_get_vote_failed", err, "vote_id", strings.TrimSpace(voteID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSubjectVotes(ctx context.Context, filter ports.SubjectVoteFilter) ([]entities.SubjectVote, error) {
	tx := r.db.WithContext(ctx).Model(&subjectVoteModel{})
	if strings.TrimSpace(filter.ProjectID) != "" {
		tx = tx.Where("project_id = ?", strings.TrimSpace(filter.ProjectID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	var rows []subjectVoteModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_list_votes_failed", err)
	}
	items := make([]entities.SubjectVote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteSubjectVote(ctx context.Context, voteID string) error {
	voteID = strings.TrimSpace(voteID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vote_id = ?", voteID).Delete(&userVoteModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vote_id = ?", voteID).Delete(&voteOptionModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", voteID).Delete(&subjectVoteModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrVoteNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, domainerrors.ErrVoteNotFound) {
		return r.logError("resolution_repo_delete_vote_failed", err, "vote_id", voteID)
	}
	return err
}

func (r *Repository) GetOption(ctx context.Context, optionID string) (entities.Option, error) {
	var row voteOptionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(optionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Option{}, domainerrors.ErrOptionNotFound
		}
		return entities.Option{}, r.logError("resolution_repo_get_option_failed", err, "option_id", strings.TrimSpace(optionID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOptions(ctx context.Context, voteID string) ([]entities.Option, error) {
	var rows []voteOptionModel
	if err := r.db.WithContext(ctx).
		Where("vote_id = ?", strings.TrimSpace(voteID)).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_list_options_failed", err,
			"vote_id", strings.TrimSpace(voteID),
		)
	}
	items := make([]entities.Option, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveOptionCount(ctx context.Context, optionID string, count int) error {
	result := r.db.WithContext(ctx).
		Model(&voteOptionModel{}).
		Where("id = ?", strings.TrimSpace(optionID)).
		Update("vote_count", count)
	if result.Error != nil {
		return r.logError("resolution_repo_save_option_count_failed", result.Error,
			"option_id", strings.TrimSpace(optionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOptionNotFound
	}
	return nil
}

func (r *Repository) GetBallot(ctx context.Context, voteID string, userID string) (entities.Ballot, bool, error) {
	var row userVoteModel
	err := r.db.WithContext(ctx).
		Where("vote_id = ?", strings.TrimSpace(voteID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("resolution_repo_get_ballot_failed", err,
			"vote_id", strings.TrimSpace(voteID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListBallots(ctx context.Context, voteID string) ([]entities.Ballot, error) {
	var rows []userVoteModel
	if err := r.db.WithContext(ctx).
		Where("vote_id = ?", strings.TrimSpace(voteID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_list_ballots_failed", err,
			"vote_id", strings.TrimSpace(voteID),
		)
	}
	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ApplyBallot is the transactional ballot insert/move. The whole read-adjust-
// write runs in one transaction so no reader ever sees a decremented counter
// without the matching increment. The (vote_id, user_id) unique constraint is
// the backstop for concurrent first-time casts.
func (r *Repository) ApplyBallot(ctx context.Context, ballot entities.Ballot, previousOptionID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if previousOptionID == "" {
			row := userVoteModelFromEntity(ballot)
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrBallotExists
				}
				return err
			}
			return incrementOptionCount(tx, ballot.OptionID, +1)
		}

		result := tx.Model(&userVoteModel{}).
			Where("id = ?", strings.TrimSpace(ballot.BallotID)).
			Where("option_id = ?", strings.TrimSpace(previousOptionID)).
			Updates(map[string]any{
				"option_id":  strings.TrimSpace(ballot.OptionID),
				"updated_at": ballot.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// The ballot moved under us; leave the counters alone.
			return domainerrors.ErrBallotExists
		}
		if err := incrementOptionCount(tx, previousOptionID, -1); err != nil {
			return err
		}
		return incrementOptionCount(tx, ballot.OptionID, +1)
	})
	if err != nil &&
		!errors.Is(err, domainerrors.ErrBallotExists) &&
		!errors.Is(err, domainerrors.ErrBallotNotFound) {
		return r.logError("resolution_repo_apply_ballot_failed", err,
			"vote_id", strings.TrimSpace(ballot.VoteID),
			"user_id", strings.TrimSpace(ballot.UserID),
		)
	}
	return err
}

func incrementOptionCount(tx *gorm.DB, optionID string, delta int) error {
	result := tx.Model(&voteOptionModel{}).
		Where("id = ?", strings.TrimSpace(optionID)).
		Update("vote_count", gorm.Expr("vote_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOptionNotFound
	}
	return nil
}

func (r *Repository) CreateDispute(ctx context.Context, dispute entities.Dispute) error {
	row := disputeModelFromEntity(dispute)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("resolution_repo_create_dispute_failed", err,
			"dispute_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) SaveDispute(ctx context.Context, dispute entities.Dispute) error {
	row := disputeModelFromEntity(dispute)
	// Counters are intentionally absent: they move only through
	// ApplyDisputeBallot and the tally auditor.
	result := r.db.WithContext(ctx).
		Model(&disputeModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"title":                 row.Title,
			"description":           row.Description,
			"status":                row.Status,
			"winner":                row.Winner,
			"staff_decision_by":     row.StaffDecisionBy,
			"staff_decision_reason": row.StaffDecisionReason,
			"closed_at":             row.ClosedAt,
		})
	if result.Error != nil {
		return r.logError("resolution_repo_save_dispute_failed", result.Error,
			"dispute_id", row.ID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDisputeNotFound
	}
	return nil
}

func (r *Repository) GetDispute(ctx context.Context, disputeID string) (entities.Dispute, error) {
	var row disputeModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(disputeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Dispute{}, domainerrors.ErrDisputeNotFound
		}
		return entities.Dispute{}, r.logError("resolution_repo_get_dispute_failed", err, "dispute_id", strings.TrimSpace(disputeID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListDisputes(ctx context.Context, filter ports.DisputeFilter) ([]entities.Dispute, error) {
	tx := r.db.WithContext(ctx).Model(&disputeModel{})
	if strings.TrimSpace(filter.ProjectID) != "" {
		tx = tx.Where("project_id = ?", strings.TrimSpace(filter.ProjectID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	var rows []disputeModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_list_disputes_failed", err)
	}
	items := make([]entities.Dispute, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteDispute(ctx context.Context, disputeID string) error {
	disputeID = strings.TrimSpace(disputeID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dispute_id = ?", disputeID).Delete(&disputeVoteModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", disputeID).Delete(&disputeModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrDisputeNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, domainerrors.ErrDisputeNotFound) {
		return r.logError("resolution_repo_delete_dispute_failed", err, "dispute_id", disputeID)
	}
	return err
}

func (r *Repository) SaveDisputeCounters(ctx context.Context, disputeID string, correctorVotes int, correctedVotes int) error {
	result := r.db.WithContext(ctx).
		Model(&disputeModel{}).
		Where("id = ?", strings.TrimSpace(disputeID)).
		Updates(map[string]any{
			"corrector_votes": correctorVotes,
			"corrected_votes": correctedVotes,
		})
	if result.Error != nil {
		return r.logError("resolution_repo_save_dispute_counters_failed", result.Error,
			"dispute_id", strings.TrimSpace(disputeID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDisputeNotFound
	}
	return nil
}

func (r *Repository) GetDisputeBallot(ctx context.Context, disputeID string, userID string) (entities.DisputeBallot, bool, error) {
	var row disputeVoteModel
	err := r.db.WithContext(ctx).
		Where("dispute_id = ?", strings.TrimSpace(disputeID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DisputeBallot{}, false, nil
		}
		return entities.DisputeBallot{}, false, r.logError("resolution_repo_get_dispute_ballot_failed", err,
			"dispute_id", strings.TrimSpace(disputeID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListDisputeBallots(ctx context.Context, disputeID string) ([]entities.DisputeBallot, error) {
	var rows []disputeVoteModel
	if err := r.db.WithContext(ctx).
		Where("dispute_id = ?", strings.TrimSpace(disputeID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_list_dispute_ballots_failed", err,
			"dispute_id", strings.TrimSpace(disputeID),
		)
	}
	items := make([]entities.DisputeBallot, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ApplyDisputeBallot mirrors ApplyBallot with the two fixed side counters
// living on the dispute row itself.
func (r *Repository) ApplyDisputeBallot(ctx context.Context, ballot entities.DisputeBallot, previousSide entities.DisputeSide) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if previousSide == "" {
			row := disputeVoteModelFromEntity(ballot)
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrBallotExists
				}
				return err
			}
			return incrementSideCount(tx, ballot.DisputeID, ballot.Side, +1)
		}

		result := tx.Model(&disputeVoteModel{}).
			Where("id = ?", strings.TrimSpace(ballot.BallotID)).
			Where("vote_for = ?", string(previousSide)).
			Updates(map[string]any{
				"vote_for":   string(ballot.Side),
				"updated_at": ballot.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrBallotExists
		}
		if err := incrementSideCount(tx, ballot.DisputeID, previousSide, -1); err != nil {
			return err
		}
		return incrementSideCount(tx, ballot.DisputeID, ballot.Side, +1)
	})
	if err != nil &&
		!errors.Is(err, domainerrors.ErrBallotExists) &&
		!errors.Is(err, domainerrors.ErrBallotNotFound) {
		return r.logError("resolution_repo_apply_dispute_ballot_failed", err,
			"dispute_id", strings.TrimSpace(ballot.DisputeID),
			"user_id", strings.TrimSpace(ballot.UserID),
		)
	}
	return err
}

func incrementSideCount(tx *gorm.DB, disputeID string, side entities.DisputeSide, delta int) error {
	column := "corrector_votes"
	if side == entities.SideCorrected {
		column = "corrected_votes"
	}
	result := tx.Model(&disputeModel{}).
		Where("id = ?", strings.TrimSpace(disputeID)).
		Update(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDisputeNotFound
	}
	return nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID string) (ports.UserProjection, error) {
	var row userProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserProjection{}, domainerrors.ErrUserNotFound
		}
		return ports.UserProjection{}, r.logError("resolution_repo_get_user_failed", err, "user_id", strings.TrimSpace(userID))
	}
	return row.toProjection(), nil
}

func (r *Repository) GetUserByLogin(ctx context.Context, login string) (ports.UserProjection, error) {
	var row userProjectionModel
	err := r.db.WithContext(ctx).
		Where("login = ?", strings.TrimSpace(login)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserProjection{}, domainerrors.ErrUserNotFound
		}
		return ports.UserProjection{}, r.logError("resolution_repo_get_user_by_login_failed", err, "login", strings.TrimSpace(login))
	}
	return row.toProjection(), nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := envelopeJSON(envelope)
	if err != nil {
		return r.logError("resolution_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
		)
	}
	row := outboxModel{
		OutboxID:  strings.TrimSpace(envelope.EventID),
		EventType: strings.TrimSpace(envelope.EventType),
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: envelope.OccurredAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("resolution_repo_append_outbox_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("resolution_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community-governance/resolution-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("resolution repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type subjectVoteModel struct {
	ID                  string     `gorm:"column:id;primaryKey"`
	Title               string     `gorm:"column:title"`
	Description         string     `gorm:"column:description"`
	ProjectID           string     `gorm:"column:project_id"`
	CreatorID           string     `gorm:"column:creator_id"`
	Status              string     `gorm:"column:status"`
	WinningOptionID     *string    `gorm:"column:winning_option_id"`
	StaffDecisionBy     *string    `gorm:"column:staff_decision_by"`
	StaffDecisionReason *string    `gorm:"column:staff_decision_reason"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	ClosedAt            *time.Time `gorm:"column:closed_at"`
}

func (subjectVoteModel) TableName() string {
	return "subject_votes"
}

func subjectVoteModelFromEntity(vote entities.SubjectVote) subjectVoteModel {
	row := subjectVoteModel{
		ID:          strings.TrimSpace(vote.VoteID),
		Title:       strings.TrimSpace(vote.Title),
		Description: vote.Description,
		ProjectID:   strings.TrimSpace(vote.ProjectID),
		Status:      string(vote.Status),
		CreatorID:   strings.TrimSpace(vote.CreatorID),
		CreatedAt:   vote.CreatedAt.UTC(),
	}
	if strings.TrimSpace(vote.WinningOptionID) != "" {
		winning := strings.TrimSpace(vote.WinningOptionID)
		row.WinningOptionID = &winning
	}
	if vote.StaffDecision != nil {
		by := strings.TrimSpace(vote.StaffDecision.By)
		reason := vote.StaffDecision.Reason
		row.StaffDecisionBy = &by
		row.StaffDecisionReason = &reason
	}
	if vote.ClosedAt != nil {
		closedAt := vote.ClosedAt.UTC()
		row.ClosedAt = &closedAt
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m subjectVoteModel) toEntity() entities.SubjectVote {
	vote := entities.SubjectVote{
		VoteID:      m.ID,
		Title:       m.Title,
		Description: m.Description,
		ProjectID:   m.ProjectID,
		CreatorID:   m.CreatorID,
		Status:      entities.ResolutionStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.WinningOptionID != nil {
		vote.WinningOptionID = *m.WinningOptionID
	}
	if m.StaffDecisionBy != nil {
		decision := entities.StaffDecision{By: *m.StaffDecisionBy}
		if m.StaffDecisionReason != nil {
			decision.Reason = *m.StaffDecisionReason
		}
		vote.StaffDecision = &decision
	}
	if m.ClosedAt != nil {
		closedAt := m.ClosedAt.UTC()
		vote.ClosedAt = &closedAt
	}
	return vote
}

type voteOptionModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	VoteID    string `gorm:"column:vote_id"`
	Text      string `gorm:"column:text"`
	VoteCount int    `gorm:"column:vote_count"`
	Position  int    `gorm:"column:position"`
}

func (voteOptionModel) TableName() string {
	return "vote_options"
}

func (m voteOptionModel) toEntity() entities.Option {
	return entities.Option{
		OptionID:  m.ID,
		VoteID:    m.VoteID,
		Text:      m.Text,
		VoteCount: m.VoteCount,
	}
}

type userVoteModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	VoteID    string    `gorm:"column:vote_id;uniqueIndex:ux_user_votes_vote_user"`
	UserID    string    `gorm:"column:user_id;uniqueIndex:ux_user_votes_vote_user"`
	OptionID  string    `gorm:"column:option_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userVoteModel) TableName() string {
	return "user_votes"
}

func userVoteModelFromEntity(ballot entities.Ballot) userVoteModel {
	row := userVoteModel{
		ID:        strings.TrimSpace(ballot.BallotID),
		VoteID:    strings.TrimSpace(ballot.VoteID),
		UserID:    strings.TrimSpace(ballot.UserID),
		OptionID:  strings.TrimSpace(ballot.OptionID),
		CreatedAt: ballot.CreatedAt.UTC(),
		UpdatedAt: ballot.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m userVoteModel) toEntity() entities.Ballot {
	return entities.Ballot{
		BallotID:  m.ID,
		VoteID:    m.VoteID,
		OptionID:  m.OptionID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type disputeModel struct {
	ID                  string     `gorm:"column:id;primaryKey"`
	Title               string     `gorm:"column:title"`
	Description         string     `gorm:"column:description"`
	ProjectID           string     `gorm:"column:project_id"`
	CorrectorID         string     `gorm:"column:corrector_id"`
	CorrectedID         string     `gorm:"column:corrected_id"`
	CreatorID           string     `gorm:"column:creator_id"`
	Status              string     `gorm:"column:status"`
	Winner              *string    `gorm:"column:winner"`
	CorrectorVotes      int        `gorm:"column:corrector_votes"`
	CorrectedVotes      int        `gorm:"column:corrected_votes"`
	StaffDecisionBy     *string    `gorm:"column:staff_decision_by"`
	StaffDecisionReason *string    `gorm:"column:staff_decision_reason"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	ClosedAt            *time.Time `gorm:"column:closed_at"`
}

func (disputeModel) TableName() string {
	return "disputes"
}

func disputeModelFromEntity(dispute entities.Dispute) disputeModel {
	row := disputeModel{
		ID:             strings.TrimSpace(dispute.DisputeID),
		Title:          strings.TrimSpace(dispute.Title),
		Description:    dispute.Description,
		ProjectID:      strings.TrimSpace(dispute.ProjectID),
		CorrectorID:    strings.TrimSpace(dispute.CorrectorID),
		CorrectedID:    strings.TrimSpace(dispute.CorrectedID),
		CreatorID:      strings.TrimSpace(dispute.CreatorID),
		Status:         string(dispute.Status),
		CorrectorVotes: dispute.CorrectorVotes,
		CorrectedVotes: dispute.CorrectedVotes,
		CreatedAt:      dispute.CreatedAt.UTC(),
	}
	if dispute.Winner != "" {
		winner := string(dispute.Winner)
		row.Winner = &winner
	}
	if dispute.StaffDecision != nil {
		by := strings.TrimSpace(dispute.StaffDecision.By)
		reason := dispute.StaffDecision.Reason
		row.StaffDecisionBy = &by
		row.StaffDecisionReason = &reason
	}
	if dispute.ClosedAt != nil {
		closedAt := dispute.ClosedAt.UTC()
		row.ClosedAt = &closedAt
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m disputeModel) toEntity() entities.Dispute {
	dispute := entities.Dispute{
		DisputeID:      m.ID,
		Title:          m.Title,
		Description:    m.Description,
		ProjectID:      m.ProjectID,
		CorrectorID:    m.CorrectorID,
		CorrectedID:    m.CorrectedID,
		CreatorID:      m.CreatorID,
		Status:         entities.ResolutionStatus(m.Status),
		CorrectorVotes: m.CorrectorVotes,
		CorrectedVotes: m.CorrectedVotes,
		CreatedAt:      m.CreatedAt.UTC(),
	}
	if m.Winner != nil {
		dispute.Winner = entities.DisputeSide(*m.Winner)
	}
	if m.StaffDecisionBy != nil {
		decision := entities.StaffDecision{By: *m.StaffDecisionBy}
		if m.StaffDecisionReason != nil {
			decision.Reason = *m.StaffDecisionReason
		}
		dispute.StaffDecision = &decision
	}
	if m.ClosedAt != nil {
		closedAt := m.ClosedAt.UTC()
		dispute.ClosedAt = &closedAt
	}
	return dispute
}

type disputeVoteModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	DisputeID string    `gorm:"column:dispute_id;uniqueIndex:ux_dispute_votes_dispute_user"`
	UserID    string    `gorm:"column:user_id;uniqueIndex:ux_dispute_votes_dispute_user"`
	VoteFor   string    `gorm:"column:vote_for"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (disputeVoteModel) TableName() string {
	return "dispute_votes"
}

func disputeVoteModelFromEntity(ballot entities.DisputeBallot) disputeVoteModel {
	row := disputeVoteModel{
		ID:        strings.TrimSpace(ballot.BallotID),
		DisputeID: strings.TrimSpace(ballot.DisputeID),
		UserID:    strings.TrimSpace(ballot.UserID),
		VoteFor:   string(ballot.Side),
		CreatedAt: ballot.CreatedAt.UTC(),
		UpdatedAt: ballot.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m disputeVoteModel) toEntity() entities.DisputeBallot {
	return entities.DisputeBallot{
		BallotID:  m.ID,
		DisputeID: m.DisputeID,
		UserID:    m.UserID,
		Side:      entities.DisputeSide(m.VoteFor),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type userProjectionModel struct {
	ID      string `gorm:"column:id;primaryKey"`
	Login   string `gorm:"column:login"`
	IsStaff bool   `gorm:"column:is_staff"`
}

func (userProjectionModel) TableName() string {
	return "users"
}

func (m userProjectionModel) toProjection() ports.UserProjection {
	return ports.UserProjection{
		UserID:  m.ID,
		Login:   m.Login,
		IsStaff: m.IsStaff,
	}
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "resolution_outbox"
}

func envelopeJSON(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

var _ ports.SubjectVoteRepository = (*Repository)(nil)
var _ ports.DisputeRepository = (*Repository)(nil)
var _ ports.UserDirectory = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
