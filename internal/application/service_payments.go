package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

type CreateOrderOutput struct {
	Order       ports.GatewayOrder
	Transaction domain.Transaction
	KeyID       string
}

// CreatePaymentOrder creates the remote gateway order first and only then the
// local pending ledger row. The row is keyed uniquely by gateway order id, so
// a replayed create converges on the existing transaction instead of
// double-charging; a remote order whose local insert is lost stays inert
// until paid and is picked up by the reconciler.
func (s *Service) CreatePaymentOrder(ctx context.Context, actor Actor, input CreateOrderInput) (CreateOrderOutput, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return CreateOrderOutput{}, domain.ErrUnauthorized
	}
	project, err := s.projects.GetByID(ctx, strings.TrimSpace(input.ProjectID))
	if err != nil {
		return CreateOrderOutput{}, err
	}
	if !project.Purchasable() {
		return CreateOrderOutput{}, domain.ErrInvalidInput
	}
	if project.SellerID == actor.UserID {
		return CreateOrderOutput{}, domain.ErrForbidden
	}
	currency := strings.ToUpper(strings.TrimSpace(project.Currency))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	if err := domain.ValidateCreateOrderInput(actor.UserID, project.ProjectID, project.Price, currency); err != nil {
		return CreateOrderOutput{}, err
	}

	receipt := "rcpt_" + uuid.NewString()[:18]
	order, err := s.gateway.CreateOrder(ctx, project.Price, currency, receipt, map[string]string{
		"project_id": project.ProjectID,
		"buyer_id":   actor.UserID,
	})
	if err != nil {
		return CreateOrderOutput{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	now := s.nowFn()
	fee := domain.PlatformFeeFor(project.Price, s.cfg.PlatformFeeBasisPoints)
	transaction := domain.Transaction{
		TransactionID:  uuid.NewString(),
		BuyerID:        actor.UserID,
		SellerID:       project.SellerID,
		ProjectID:      project.ProjectID,
		Amount:         project.Price,
		Currency:       currency,
		PlatformFee:    fee,
		SellerPayout:   project.Price - fee,
		Status:         domain.TransactionStatusPending,
		GatewayOrderID: order.OrderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			existing, getErr := s.transactions.GetByGatewayOrderID(ctx, order.OrderID)
			if getErr == nil {
				return CreateOrderOutput{Order: order, Transaction: existing, KeyID: s.gateway.KeyID()}, nil
			}
		}
		return CreateOrderOutput{}, err
	}
	return CreateOrderOutput{Order: order, Transaction: transaction, KeyID: s.gateway.KeyID()}, nil
}

// ProcessSuccessfulPayment handles the synchronous verify callback from the
// checkout page. Signature verification precedes any state change; a bad
// signature leaves the transaction pending.
func (s *Service) ProcessSuccessfulPayment(ctx context.Context, input VerifyPaymentInput) (domain.Transaction, error) {
	if strings.TrimSpace(input.GatewayOrderID) == "" || strings.TrimSpace(input.GatewayPaymentID) == "" {
		return domain.Transaction{}, domain.ErrInvalidInput
	}
	if !s.verifier.VerifyPayment(input.GatewayOrderID, input.GatewayPaymentID, input.GatewaySignature) {
		return domain.Transaction{}, domain.ErrInvalidSignature
	}
	return s.completePayment(ctx, input.GatewayOrderID, input.GatewayPaymentID, input.GatewaySignature, input.PaymentMethod)
}

// completePayment is shared by the verify call and the capture webhook; both
// paths converge idempotently on the completed state.
func (s *Service) completePayment(ctx context.Context, orderID, paymentID, signature, method string) (domain.Transaction, error) {
	transaction, err := s.transactions.GetByGatewayOrderID(ctx, orderID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if transaction.Status == domain.TransactionStatusCompleted {
		return transaction, nil
	}
	if !transaction.CanTransition(domain.TransactionStatusCompleted) {
		return domain.Transaction{}, domain.ErrIllegalTransition
	}

	now := s.nowFn()
	transaction.Status = domain.TransactionStatusCompleted
	transaction.GatewayPaymentID = paymentID
	transaction.GatewaySignature = signature
	transaction.PaymentMethod = strings.TrimSpace(method)
	transaction.CompletedAt = &now
	transaction.UpdatedAt = now
	if err := s.transactions.Update(ctx, transaction); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.enqueueTransactionCompleted(ctx, transaction); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.FlushOutbox(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return transaction, nil
}

// ProcessFailedPayment records a gateway-reported failure. Calling it twice
// for the same order leaves the transaction failed exactly once.
func (s *Service) ProcessFailedPayment(ctx context.Context, input PaymentFailureInput) (domain.Transaction, error) {
	if strings.TrimSpace(input.GatewayOrderID) == "" {
		return domain.Transaction{}, domain.ErrInvalidInput
	}
	transaction, err := s.transactions.GetByGatewayOrderID(ctx, input.GatewayOrderID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if transaction.Status == domain.TransactionStatusFailed {
		return transaction, nil
	}
	if !transaction.CanTransition(domain.TransactionStatusFailed) {
		return domain.Transaction{}, domain.ErrIllegalTransition
	}

	now := s.nowFn()
	transaction.Status = domain.TransactionStatusFailed
	transaction.GatewayPaymentID = strings.TrimSpace(input.GatewayPaymentID)
	transaction.FailureCode = strings.TrimSpace(input.ErrorCode)
	transaction.FailureReason = strings.TrimSpace(input.ErrorDescription)
	transaction.FailedAt = &now
	transaction.UpdatedAt = now
	if err := s.transactions.Update(ctx, transaction); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.enqueueTransactionFailed(ctx, transaction); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.FlushOutbox(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return transaction, nil
}

// GetPaymentStatus is a pure read, restricted to the transaction's buyer,
// seller, or an admin.
func (s *Service) GetPaymentStatus(ctx context.Context, actor Actor, gatewayOrderID string) (domain.Transaction, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return domain.Transaction{}, domain.ErrUnauthorized
	}
	if strings.TrimSpace(gatewayOrderID) == "" {
		return domain.Transaction{}, domain.ErrInvalidInput
	}
	transaction, err := s.transactions.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !actor.IsAdmin() && actor.UserID != transaction.BuyerID && actor.UserID != transaction.SellerID {
		return domain.Transaction{}, domain.ErrForbidden
	}
	return transaction, nil
}

// InitiateRefund moves a completed transaction to refunded. Admin only;
// amount defaults to the full original amount and may be partial. The
// original amount is never rewritten.
func (s *Service) InitiateRefund(ctx context.Context, actor Actor, input RefundInput) (domain.Transaction, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return domain.Transaction{}, domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return domain.Transaction{}, domain.ErrForbidden
	}
	if strings.TrimSpace(input.TransactionID) == "" || strings.TrimSpace(input.Reason) == "" {
		return domain.Transaction{}, domain.ErrInvalidInput
	}

	transaction, err := s.transactions.GetByID(ctx, input.TransactionID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !transaction.CanTransition(domain.TransactionStatusRefunded) {
		return domain.Transaction{}, domain.ErrIllegalTransition
	}
	amount := input.Amount
	if amount <= 0 {
		amount = transaction.Amount
	}
	if amount > transaction.Amount {
		return domain.Transaction{}, domain.ErrInvalidInput
	}

	refund, err := s.gateway.CreateRefund(ctx, transaction.GatewayPaymentID, amount, map[string]string{
		"transaction_id": transaction.TransactionID,
		"reason":         input.Reason,
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	now := s.nowFn()
	transaction.Status = domain.TransactionStatusRefunded
	transaction.RefundID = refund.RefundID
	transaction.RefundAmount = amount
	transaction.RefundReason = strings.TrimSpace(input.Reason)
	transaction.RefundedAt = &now
	transaction.UpdatedAt = now
	if err := s.transactions.Update(ctx, transaction); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.enqueueTransactionRefunded(ctx, transaction); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.FlushOutbox(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return transaction, nil
}

// HandleGatewayWebhook applies an already HMAC-verified gateway delivery.
// Deliveries are deduplicated by event id; unknown event types are
// acknowledged untouched to avoid retry storms.
func (s *Service) HandleGatewayWebhook(ctx context.Context, input WebhookInput) (domain.Transaction, error) {
	if strings.TrimSpace(input.EventID) == "" || strings.TrimSpace(input.EventType) == "" {
		return domain.Transaction{}, domain.ErrInvalidInput
	}
	now := s.nowFn()
	seen, err := s.webhooks.IsDuplicate(ctx, input.EventID, now)
	if err != nil {
		return domain.Transaction{}, err
	}
	if seen {
		if input.GatewayOrderID != "" {
			return s.transactions.GetByGatewayOrderID(ctx, input.GatewayOrderID)
		}
		return domain.Transaction{}, domain.ErrWebhookHandled
	}

	var transaction domain.Transaction
	switch {
	case domain.IsCaptureWebhook(input.EventType):
		transaction, err = s.completePayment(ctx, input.GatewayOrderID, input.GatewayPaymentID, "", input.PaymentMethod)
	case domain.IsFailureWebhook(input.EventType):
		transaction, err = s.ProcessFailedPayment(ctx, PaymentFailureInput{
			GatewayOrderID:   input.GatewayOrderID,
			GatewayPaymentID: input.GatewayPaymentID,
			ErrorCode:        input.ErrorCode,
			ErrorDescription: input.ErrorDescription,
		})
	default:
		// Ack and ignore per the gateway contract.
		return domain.Transaction{}, nil
	}
	if err != nil {
		return domain.Transaction{}, err
	}

	if err := s.webhooks.MarkProcessed(ctx, input.EventID, input.EventType, input.GatewayOrderID, now.Add(7*24*time.Hour)); err != nil {
		return domain.Transaction{}, err
	}
	return transaction, nil
}

// ListTransactions returns the caller's purchase history; admins may filter
// by any buyer.
func (s *Service) ListTransactions(ctx context.Context, actor Actor, query ports.TransactionListQuery) ([]domain.Transaction, int, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return nil, 0, domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		query.BuyerID = actor.UserID
	}
	return s.transactions.List(ctx, query.Normalized())
}
