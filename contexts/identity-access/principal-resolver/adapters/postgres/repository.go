package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"admiral/contexts/identity-access/principal-resolver/domain/entities"
	domainerrors "admiral/contexts/identity-access/principal-resolver/domain/errors"
	"admiral/contexts/identity-access/principal-resolver/ports"

	"gorm.io/gorm"
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

func (r *Repository) GetPrincipalByID(ctx context.Context, userID string) (entities.Principal, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Principal{}, domainerrors.ErrPrincipalNotFound
		}
		return entities.Principal{}, r.logError("principal_repo_get_by_id_failed", err, "user_id", strings.TrimSpace(userID))
	}
	return row.toEntity(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "identity-access/principal-resolver",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("principal repository operation failed", fields...)
	return err
}

type userModel struct {
	ID      string `gorm:"column:id;primaryKey"`
	Login   string `gorm:"column:login"`
	IsStaff bool   `gorm:"column:is_staff"`
}

func (userModel) TableName() string {
	return "users"
}

func (m userModel) toEntity() entities.Principal {
	return entities.Principal{
		UserID:  m.ID,
		Login:   m.Login,
		IsStaff: m.IsStaff,
	}
}

var _ ports.PrincipalDirectory = (*Repository)(nil)
