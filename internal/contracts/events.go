package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	PartitionKey  string          `json:"partition_key"`
	SourceService string          `json:"source_service"`
	SchemaVersion string          `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

type TransactionCompletedPayload struct {
	TransactionID string `json:"transaction_id"`
	BuyerID       string `json:"buyer_id"`
	SellerID      string `json:"seller_id"`
	ProjectID     string `json:"project_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	SellerPayout  int64  `json:"seller_payout"`
	OccurredAt    string `json:"occurred_at"`
}

type TransactionFailedPayload struct {
	TransactionID string `json:"transaction_id"`
	BuyerID       string `json:"buyer_id"`
	ProjectID     string `json:"project_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason"`
	OccurredAt    string `json:"occurred_at"`
}

type TransactionRefundedPayload struct {
	TransactionID string `json:"transaction_id"`
	RefundID      string `json:"refund_id"`
	BuyerID       string `json:"buyer_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason"`
	OccurredAt    string `json:"occurred_at"`
}

type DownloadOutcomePayload struct {
	SessionID        string `json:"session_id"`
	UserID           string `json:"user_id"`
	ProjectID        string `json:"project_id"`
	Success          bool   `json:"success"`
	BytesTransferred int64  `json:"bytes_transferred"`
	FileSize         int64  `json:"file_size"`
	OccurredAt       string `json:"occurred_at"`
}
