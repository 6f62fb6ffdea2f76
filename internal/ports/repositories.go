package ports

import (
	"context"
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/contracts"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

type TransactionListQuery struct {
	BuyerID   string
	ProjectID string
	Limit     int
	Offset    int
}

// Normalized clamps paging to the values the repository will actually apply,
// so callers can echo them back.
func (q TransactionListQuery) Normalized() TransactionListQuery {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

type TransactionRepository interface {
	// Create must fail with domain.ErrConflict when a row for the same
	// gateway order id already exists (idempotency constraint).
	Create(ctx context.Context, transaction domain.Transaction) error
	Update(ctx context.Context, transaction domain.Transaction) error
	GetByID(ctx context.Context, transactionID string) (domain.Transaction, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (domain.Transaction, error)
	// HasCompletedPurchase answers the download gate without loading rows.
	HasCompletedPurchase(ctx context.Context, buyerID, projectID string) (bool, error)
	List(ctx context.Context, query TransactionListQuery) ([]domain.Transaction, int, error)
	// ListStalePending feeds the reconciler with orders that never heard back
	// from the gateway.
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error)
}

type DownloadSessionRepository interface {
	Create(ctx context.Context, session domain.DownloadSession) error
	Update(ctx context.Context, session domain.DownloadSession) error
	GetByID(ctx context.Context, sessionID string) (domain.DownloadSession, error)
	GetByToken(ctx context.Context, token string) (domain.DownloadSession, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.DownloadSession, error)
}

type ProjectRepository interface {
	GetByID(ctx context.Context, projectID string) (domain.Project, error)
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// WebhookRepository deduplicates gateway deliveries; the gateway retries and
// may deliver out of order.
type WebhookRepository interface {
	IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType, gatewayOrderID string, expiresAt time.Time) error
}

type OutboxRecord struct {
	RecordID  string
	Envelope  contracts.EventEnvelope
	CreatedAt time.Time
	SentAt    *time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	ListPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, recordID string, at time.Time) error
}
