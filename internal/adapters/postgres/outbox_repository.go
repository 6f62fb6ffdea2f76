package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

// OutboxRepository stages event envelopes in the service database so a broker
// outage never loses a state change. A worker drains pending rows in order.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, record ports.OutboxRecord) error {
	model, err := outboxToModel(record)
	if err != nil {
		return fmt.Errorf("encode outbox envelope: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("insert outbox record: %w", err)
	}
	return nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []outboxModel
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list pending outbox: %w", err)
	}

	records := make([]ports.OutboxRecord, 0, len(models))
	for _, m := range models {
		record, err := outboxFromModel(m)
		if err != nil {
			return nil, fmt.Errorf("decode outbox envelope %s: %w", m.RecordID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, recordID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("record_id = ? AND sent_at IS NULL", recordID).
		Update("sent_at", at)
	if result.Error != nil {
		return fmt.Errorf("mark outbox sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
