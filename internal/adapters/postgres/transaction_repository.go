package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction domain.Transaction) error {
	model := transactionToModel(transaction)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		// The unique index on gateway_order_id is the idempotency barrier for
		// double-submitted order creation.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction domain.Transaction) error {
	model := transactionToModel(transaction)
	result := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Where("transaction_id = ?", model.TransactionID).
		Select("*").
		Omit("transaction_id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return fmt.Errorf("update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string) (domain.Transaction, error) {
	var model transactionModel
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Transaction{}, domain.ErrNotFound
		}
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return transactionFromModel(model), nil
}

func (r *TransactionRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (domain.Transaction, error) {
	var model transactionModel
	err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Transaction{}, domain.ErrNotFound
		}
		return domain.Transaction{}, fmt.Errorf("get transaction by order: %w", err)
	}
	return transactionFromModel(model), nil
}

func (r *TransactionRepository) HasCompletedPurchase(ctx context.Context, buyerID, projectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Where("buyer_id = ? AND project_id = ? AND status = ?",
			buyerID, projectID, string(domain.TransactionStatusCompleted)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count purchases: %w", err)
	}
	return count > 0, nil
}

func (r *TransactionRepository) List(ctx context.Context, query ports.TransactionListQuery) ([]domain.Transaction, int, error) {
	tx := r.db.WithContext(ctx).Model(&transactionModel{})
	if query.BuyerID != "" {
		tx = tx.Where("buyer_id = ?", query.BuyerID)
	}
	if query.ProjectID != "" {
		tx = tx.Where("project_id = ?", query.ProjectID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	var models []transactionModel
	err := tx.Order("created_at DESC").
		Limit(limit).
		Offset(query.Offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	transactions := make([]domain.Transaction, 0, len(models))
	for _, m := range models {
		transactions = append(transactions, transactionFromModel(m))
	}
	return transactions, int(total), nil
}

func (r *TransactionRepository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []transactionModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(domain.TransactionStatusPending), olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list stale pending: %w", err)
	}

	transactions := make([]domain.Transaction, 0, len(models))
	for _, m := range models {
		transactions = append(transactions, transactionFromModel(m))
	}
	return transactions, nil
}
