package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WebhookRepository records processed gateway event ids so retried deliveries
// become no-ops. Rows past their retention window no longer count as seen.
type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error) {
	var model webhookEventModel
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND expires_at > ?", eventID, now).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup webhook event: %w", err)
	}
	return true, nil
}

func (r *WebhookRepository) MarkProcessed(ctx context.Context, eventID, eventType, gatewayOrderID string, expiresAt time.Time) error {
	model := webhookEventModel{
		EventID:        eventID,
		EventType:      eventType,
		GatewayOrderID: gatewayOrderID,
		ReceivedAt:     time.Now().UTC(),
		ExpiresAt:      expiresAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("mark webhook processed: %w", err)
	}
	return nil
}
