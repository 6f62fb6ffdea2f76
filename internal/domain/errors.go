package domain

import "errors"

// Sentinel errors shared across layers. Adapters translate infrastructure
// failures into these; the HTTP layer maps them onto the wire taxonomy.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not allowed")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("resource already exists")

	ErrInvalidSignature   = errors.New("signature verification failed")
	ErrIllegalTransition  = errors.New("illegal transaction state transition")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	ErrSessionExpired   = errors.New("download session expired")
	ErrSessionExhausted = errors.New("download limit reached")
	ErrSessionRevoked   = errors.New("download session revoked")
	ErrNotPurchased     = errors.New("project not purchased")

	ErrWebhookHandled = errors.New("webhook event already handled")
)
