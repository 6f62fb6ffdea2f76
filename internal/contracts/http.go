package contracts

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CreateOrderRequest struct {
	ProjectID   string `json:"project_id"`
	Description string `json:"description,omitempty"`
}

type CreateOrderResponse struct {
	Order        OrderPayload       `json:"order"`
	Transaction  TransactionPayload `json:"transaction"`
	GatewayKeyID string             `json:"gateway_key_id"`
}

type OrderPayload struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type TransactionPayload struct {
	ID           string     `json:"id"`
	Amount       int64      `json:"amount"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	ProjectID    string     `json:"project_id"`
	PlatformFee  int64      `json:"platform_fee,omitempty"`
	SellerPayout int64      `json:"seller_payout,omitempty"`
	RefundID     string     `json:"refund_id,omitempty"`
	RefundAmount int64      `json:"refund_amount,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	FailedAt     *time.Time `json:"failed_at,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
	PaymentMethod    string `json:"payment_method,omitempty"`
}

type PaymentFailureRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	ErrorCode        string `json:"error_code,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type RefundRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount,omitempty"`
	Reason        string `json:"reason"`
}

// GatewayWebhookEvent mirrors the provider's delivery envelope. Only the
// fields the dispatcher reads are declared; the raw body is what gets signed.
type GatewayWebhookEvent struct {
	EventID string              `json:"event_id"`
	Event   string              `json:"event"`
	Payload GatewayEventPayload `json:"payload"`
}

type GatewayEventPayload struct {
	Payment struct {
		Entity struct {
			ID               string `json:"id"`
			OrderID          string `json:"order_id"`
			Method           string `json:"method"`
			ErrorCode        string `json:"error_code"`
			ErrorDescription string `json:"error_description"`
		} `json:"entity"`
	} `json:"payment"`
	Order struct {
		Entity struct {
			ID string `json:"id"`
		} `json:"entity"`
	} `json:"order"`
}

type CreateSessionResponse struct {
	DownloadID string    `json:"download_id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	AccessType string    `json:"access_type"`
}

type PurchaseStatusResponse struct {
	HasPurchased bool   `json:"has_purchased"`
	AccessType   string `json:"access_type,omitempty"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse always rides on HTTP 200; failure is encoded in the
// body so unauthenticated callers learn nothing from status codes.
type ValidateTokenResponse struct {
	IsValid bool            `json:"is_valid"`
	Project *ProjectPayload `json:"project,omitempty"`
	Session *SessionPayload `json:"session,omitempty"`
}

type ProjectPayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

type SessionPayload struct {
	ID            string    `json:"id"`
	AccessType    string    `json:"access_type"`
	DownloadCount int       `json:"download_count"`
	MaxDownloads  int       `json:"max_downloads"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}
