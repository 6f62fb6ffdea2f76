package ports

import "context"

// GatewayOrder is the remote order handle returned by the payment provider.
// Amounts are in the smallest currency unit, matching the provider wire format.
type GatewayOrder struct {
	OrderID  string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

type GatewayRefund struct {
	RefundID string
	OrderID  string
	Amount   int64
	Status   string
}

// PaymentGateway is the outbound port to the hosted checkout provider.
// Calls carry bounded timeouts; on timeout the caller leaves local state
// pending for the reconciler instead of assuming failure.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (GatewayOrder, error)
	FetchOrder(ctx context.Context, orderID string) (GatewayOrder, error)
	CreateRefund(ctx context.Context, paymentID string, amount int64, notes map[string]string) (GatewayRefund, error)
	KeyID() string
}

// SignatureVerifier proves a callback genuinely originated from the gateway.
// Implementations must compare in constant time.
type SignatureVerifier interface {
	VerifyPayment(orderID, paymentID, signature string) bool
	VerifyWebhook(body []byte, signature string) bool
}
