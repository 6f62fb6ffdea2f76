package postgres

import "time"

type userModel struct {
	UserID       string    `gorm:"column:user_id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Name         string    `gorm:"column:name"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type projectModel struct {
	ProjectID string    `gorm:"column:project_id;type:uuid;primaryKey"`
	SellerID  string    `gorm:"column:seller_id;type:uuid"`
	Title     string    `gorm:"column:title"`
	Price     int64     `gorm:"column:price"`
	Currency  string    `gorm:"column:currency"`
	License   string    `gorm:"column:license"`
	Status    string    `gorm:"column:status"`
	FileKey   string    `gorm:"column:file_key"`
	FileName  string    `gorm:"column:file_name"`
	FileSize  int64     `gorm:"column:file_size"`
	MimeType  string    `gorm:"column:mime_type"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (projectModel) TableName() string { return "projects" }

type transactionModel struct {
	TransactionID    string     `gorm:"column:transaction_id;type:uuid;primaryKey"`
	BuyerID          string     `gorm:"column:buyer_id;type:uuid;index"`
	SellerID         string     `gorm:"column:seller_id;type:uuid"`
	ProjectID        string     `gorm:"column:project_id;type:uuid;index"`
	Amount           int64      `gorm:"column:amount"`
	Currency         string     `gorm:"column:currency"`
	PlatformFee      int64      `gorm:"column:platform_fee"`
	SellerPayout     int64      `gorm:"column:seller_payout"`
	Status           string     `gorm:"column:status;index"`
	PaymentMethod    string     `gorm:"column:payment_method"`
	GatewayOrderID   string     `gorm:"column:gateway_order_id;uniqueIndex"`
	GatewayPaymentID string     `gorm:"column:gateway_payment_id"`
	GatewaySignature string     `gorm:"column:gateway_signature"`
	RefundID         string     `gorm:"column:refund_id"`
	RefundAmount     int64      `gorm:"column:refund_amount"`
	RefundReason     string     `gorm:"column:refund_reason"`
	FailureCode      string     `gorm:"column:failure_code"`
	FailureReason    string     `gorm:"column:failure_reason"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	CompletedAt      *time.Time `gorm:"column:completed_at"`
	FailedAt         *time.Time `gorm:"column:failed_at"`
	RefundedAt       *time.Time `gorm:"column:refunded_at"`
}

func (transactionModel) TableName() string { return "transactions" }

type downloadSessionModel struct {
	SessionID        string     `gorm:"column:session_id;type:uuid;primaryKey"`
	Token            string     `gorm:"column:token;uniqueIndex"`
	UserID           string     `gorm:"column:user_id;type:uuid;index"`
	ProjectID        string     `gorm:"column:project_id;type:uuid"`
	AccessType       string     `gorm:"column:access_type"`
	Status           string     `gorm:"column:status"`
	DownloadCount    int        `gorm:"column:download_count"`
	MaxDownloads     int        `gorm:"column:max_downloads"`
	BytesTransferred int64      `gorm:"column:bytes_transferred"`
	IPAddress        string     `gorm:"column:ip_address"`
	UserAgent        string     `gorm:"column:user_agent"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	ExpiresAt        time.Time  `gorm:"column:expires_at"`
	LastAccessAt     *time.Time `gorm:"column:last_access_at"`
}

func (downloadSessionModel) TableName() string { return "download_sessions" }

type webhookEventModel struct {
	EventID        string    `gorm:"column:event_id;primaryKey"`
	EventType      string    `gorm:"column:event_type"`
	GatewayOrderID string    `gorm:"column:gateway_order_id"`
	ReceivedAt     time.Time `gorm:"column:received_at"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
}

func (webhookEventModel) TableName() string { return "webhook_events" }

type outboxModel struct {
	RecordID  string     `gorm:"column:record_id;type:uuid;primaryKey"`
	EventType string     `gorm:"column:event_type"`
	Envelope  string     `gorm:"column:envelope;type:jsonb"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "outbox" }
