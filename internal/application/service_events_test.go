package application

import (
	"context"
	"errors"
	"testing"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

func TestOutboxSurvivesBrokerOutage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	out, err := env.service.CreatePaymentOrder(ctx, buyerActor(), CreateOrderInput{ProjectID: testProjectID})
	if err != nil {
		t.Fatal(err)
	}
	orderID := out.Order.OrderID

	// The inline flush fails, but the state change and the outbox row are
	// already durable; a later flush delivers the event exactly once.
	env.publisher.err = errors.New("broker unreachable")
	_, err = env.service.ProcessSuccessfulPayment(ctx, VerifyPaymentInput{
		GatewayOrderID:   orderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: "sig:" + orderID + "|pay_001",
	})
	if err == nil {
		t.Fatal("expected flush error to surface")
	}

	row, _ := env.transactions.GetByGatewayOrderID(ctx, orderID)
	if row.Status != domain.TransactionStatusCompleted {
		t.Fatalf("transaction status = %s, want completed despite broker outage", row.Status)
	}
	pending, _ := env.outbox.ListPending(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("pending outbox records = %d, want 1", len(pending))
	}

	env.publisher.err = nil
	if err := env.service.FlushOutbox(ctx); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	if got := env.publisher.published(); len(got) != 1 || got[0] != domain.EventTransactionCompleted {
		t.Errorf("published = %v", got)
	}
	pending, _ = env.outbox.ListPending(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("records still pending after successful flush: %d", len(pending))
	}
}

func TestEnvelopeShape(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	out, _ := env.service.CreatePaymentOrder(ctx, buyerActor(), CreateOrderInput{ProjectID: testProjectID})
	orderID := out.Order.OrderID
	completed, err := env.service.ProcessSuccessfulPayment(ctx, VerifyPaymentInput{
		GatewayOrderID:   orderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: "sig:" + orderID + "|pay_001",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(env.outbox.rows) != 1 {
		t.Fatalf("outbox rows = %d", len(env.outbox.rows))
	}
	envelope := env.outbox.rows[0].Envelope
	if envelope.EventType != domain.EventTransactionCompleted {
		t.Errorf("event type = %s", envelope.EventType)
	}
	if envelope.PartitionKey != completed.TransactionID {
		t.Errorf("partition key = %s, want transaction id", envelope.PartitionKey)
	}
	if envelope.EventID == "" || envelope.SchemaVersion == "" || envelope.SourceService == "" {
		t.Errorf("envelope metadata incomplete: %+v", envelope)
	}
	if len(envelope.Data) == 0 {
		t.Error("envelope data empty")
	}
}
