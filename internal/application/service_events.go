package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/manan0901/Vibecoder-sub002/internal/contracts"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

// FlushOutbox publishes pending outbox records and marks them sent. Called
// inline after each mutating operation and periodically by the worker, so a
// broker outage only delays delivery.
func (s *Service) FlushOutbox(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}
	pending, err := s.outbox.ListPending(ctx, s.cfg.OutboxFlushBatchSize)
	if err != nil {
		return err
	}
	for _, record := range pending {
		payload, err := json.Marshal(record.Envelope)
		if err != nil {
			return err
		}
		if err := s.publisher.Publish(ctx, record.Envelope.EventType, payload, record.Envelope.PartitionKey); err != nil {
			return err
		}
		if err := s.outbox.MarkSent(ctx, record.RecordID, s.nowFn()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) enqueueEnvelope(ctx context.Context, eventType, partitionKey string, occurredAt time.Time, data any) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		RecordID: uuid.NewString(),
		Envelope: contracts.EventEnvelope{
			EventID:       uuid.NewString(),
			EventType:     eventType,
			OccurredAt:    occurredAt,
			PartitionKey:  partitionKey,
			SourceService: s.cfg.ServiceName,
			SchemaVersion: "1.0",
			Data:          blob,
		},
		CreatedAt: s.nowFn(),
	})
}

func (s *Service) enqueueTransactionCompleted(ctx context.Context, t domain.Transaction) error {
	occurredAt := s.nowFn()
	if t.CompletedAt != nil {
		occurredAt = *t.CompletedAt
	}
	return s.enqueueEnvelope(ctx, domain.EventTransactionCompleted, t.TransactionID, occurredAt, contracts.TransactionCompletedPayload{
		TransactionID: t.TransactionID,
		BuyerID:       t.BuyerID,
		SellerID:      t.SellerID,
		ProjectID:     t.ProjectID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		SellerPayout:  t.SellerPayout,
		OccurredAt:    occurredAt.Format(time.RFC3339),
	})
}

func (s *Service) enqueueTransactionFailed(ctx context.Context, t domain.Transaction) error {
	occurredAt := s.nowFn()
	if t.FailedAt != nil {
		occurredAt = *t.FailedAt
	}
	return s.enqueueEnvelope(ctx, domain.EventTransactionFailed, t.TransactionID, occurredAt, contracts.TransactionFailedPayload{
		TransactionID: t.TransactionID,
		BuyerID:       t.BuyerID,
		ProjectID:     t.ProjectID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Reason:        t.FailureReason,
		OccurredAt:    occurredAt.Format(time.RFC3339),
	})
}

func (s *Service) enqueueTransactionRefunded(ctx context.Context, t domain.Transaction) error {
	occurredAt := s.nowFn()
	if t.RefundedAt != nil {
		occurredAt = *t.RefundedAt
	}
	return s.enqueueEnvelope(ctx, domain.EventTransactionRefunded, t.TransactionID, occurredAt, contracts.TransactionRefundedPayload{
		TransactionID: t.TransactionID,
		RefundID:      t.RefundID,
		BuyerID:       t.BuyerID,
		Amount:        t.RefundAmount,
		Currency:      t.Currency,
		Reason:        t.RefundReason,
		OccurredAt:    occurredAt.Format(time.RFC3339),
	})
}

func (s *Service) enqueueDownloadOutcome(ctx context.Context, session domain.DownloadSession, success bool, fileSize int64) error {
	eventType := domain.EventDownloadCompleted
	if !success {
		eventType = domain.EventDownloadFailed
	}
	occurredAt := s.nowFn()
	return s.enqueueEnvelope(ctx, eventType, session.SessionID, occurredAt, contracts.DownloadOutcomePayload{
		SessionID:        session.SessionID,
		UserID:           session.UserID,
		ProjectID:        session.ProjectID,
		Success:          success,
		BytesTransferred: session.BytesTransferred,
		FileSize:         fileSize,
		OccurredAt:       occurredAt.Format(time.RFC3339),
	})
}
