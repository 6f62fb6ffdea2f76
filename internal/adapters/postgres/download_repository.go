package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

type DownloadSessionRepository struct {
	db *gorm.DB
}

func NewDownloadSessionRepository(db *gorm.DB) *DownloadSessionRepository {
	return &DownloadSessionRepository{db: db}
}

func (r *DownloadSessionRepository) Create(ctx context.Context, session domain.DownloadSession) error {
	model := sessionToModel(session)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert download session: %w", err)
	}
	return nil
}

func (r *DownloadSessionRepository) Update(ctx context.Context, session domain.DownloadSession) error {
	model := sessionToModel(session)
	result := r.db.WithContext(ctx).
		Model(&downloadSessionModel{}).
		Where("session_id = ?", model.SessionID).
		Select("*").
		Omit("session_id", "token", "created_at").
		Updates(&model)
	if result.Error != nil {
		return fmt.Errorf("update download session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DownloadSessionRepository) GetByID(ctx context.Context, sessionID string) (domain.DownloadSession, error) {
	var model downloadSessionModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DownloadSession{}, domain.ErrNotFound
		}
		return domain.DownloadSession{}, fmt.Errorf("get download session: %w", err)
	}
	return sessionFromModel(model), nil
}

func (r *DownloadSessionRepository) GetByToken(ctx context.Context, token string) (domain.DownloadSession, error) {
	var model downloadSessionModel
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DownloadSession{}, domain.ErrNotFound
		}
		return domain.DownloadSession{}, fmt.Errorf("get download session by token: %w", err)
	}
	return sessionFromModel(model), nil
}

func (r *DownloadSessionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.DownloadSession, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []downloadSessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list download sessions: %w", err)
	}

	sessions := make([]domain.DownloadSession, 0, len(models))
	for _, m := range models {
		sessions = append(sessions, sessionFromModel(m))
	}
	return sessions, nil
}
