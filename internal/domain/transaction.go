package domain

import (
	"strings"
	"time"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// Transaction is the authoritative local ledger record of one purchase
// attempt. The gateway is an untrusted, possibly-retrying correspondent:
// state changes happen only after signature verification or an authenticated
// admin action, and repeated writes to the same terminal state are no-ops.
type Transaction struct {
	TransactionID    string            `json:"transaction_id"`
	BuyerID          string            `json:"buyer_id"`
	SellerID         string            `json:"seller_id"`
	ProjectID        string            `json:"project_id"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	PlatformFee      int64             `json:"platform_fee"`
	SellerPayout     int64             `json:"seller_payout"`
	Status           TransactionStatus `json:"status"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	GatewayOrderID   string            `json:"gateway_order_id"`
	GatewayPaymentID string            `json:"gateway_payment_id,omitempty"`
	GatewaySignature string            `json:"gateway_signature,omitempty"`
	RefundID         string            `json:"refund_id,omitempty"`
	RefundAmount     int64             `json:"refund_amount,omitempty"`
	RefundReason     string            `json:"refund_reason,omitempty"`
	FailureCode      string            `json:"failure_code,omitempty"`
	FailureReason    string            `json:"failure_reason,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	FailedAt         *time.Time        `json:"failed_at,omitempty"`
	RefundedAt       *time.Time        `json:"refunded_at,omitempty"`
}

// CanTransition encodes the only legal edges:
// pending -> completed, pending -> failed, completed -> refunded.
func (t Transaction) CanTransition(to TransactionStatus) bool {
	switch t.Status {
	case TransactionStatusPending:
		return to == TransactionStatusCompleted || to == TransactionStatusFailed
	case TransactionStatusCompleted:
		return to == TransactionStatusRefunded
	default:
		return false
	}
}

func ValidateCreateOrderInput(buyerID, projectID string, amount int64, currency string) error {
	if strings.TrimSpace(buyerID) == "" || strings.TrimSpace(projectID) == "" {
		return ErrInvalidInput
	}
	if amount <= 0 {
		return ErrInvalidInput
	}
	if len(strings.TrimSpace(currency)) != 3 {
		return ErrInvalidInput
	}
	return nil
}

// PlatformFeeFor computes the marketplace cut in minor units, rounding down
// so rounding remainder stays with the seller payout.
func PlatformFeeFor(amount int64, rateBasisPoints int64) int64 {
	if amount <= 0 || rateBasisPoints <= 0 {
		return 0
	}
	return amount * rateBasisPoints / 10000
}

// Gateway webhook event names, per the checkout provider's contract.
const (
	WebhookPaymentCaptured = "payment.captured"
	WebhookPaymentFailed   = "payment.failed"
	WebhookOrderPaid       = "order.paid"
)

func IsCaptureWebhook(eventType string) bool {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case WebhookPaymentCaptured, WebhookOrderPaid:
		return true
	default:
		return false
	}
}

func IsFailureWebhook(eventType string) bool {
	return strings.ToLower(strings.TrimSpace(eventType)) == WebhookPaymentFailed
}
