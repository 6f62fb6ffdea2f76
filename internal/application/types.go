package application

import (
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

type Config struct {
	ServiceName            string
	DefaultCurrency        string
	PlatformFeeBasisPoints int64
	DownloadTTL            time.Duration
	MaxDownloads           int
	TokenTTL               time.Duration
	OutboxFlushBatchSize   int
}

// Actor is the authenticated caller as resolved by the HTTP middleware.
type Actor struct {
	UserID    string
	Role      string
	RequestID string
}

func (a Actor) IsAdmin() bool { return a.Role == "admin" }

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

type CreateOrderInput struct {
	ProjectID   string
	Description string
}

type VerifyPaymentInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	PaymentMethod    string
}

type PaymentFailureInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	ErrorCode        string
	ErrorDescription string
}

type RefundInput struct {
	TransactionID string
	Amount        int64
	Reason        string
}

type WebhookInput struct {
	EventID          string
	EventType        string
	GatewayOrderID   string
	GatewayPaymentID string
	PaymentMethod    string
	ErrorCode        string
	ErrorDescription string
}

type DownloadRequestInput struct {
	ProjectID string
	IPAddress string
	UserAgent string
}

type Service struct {
	cfg Config

	transactions ports.TransactionRepository
	downloads    ports.DownloadSessionRepository
	projects     ports.ProjectRepository
	users        ports.UserRepository
	webhooks     ports.WebhookRepository
	outbox       ports.OutboxRepository

	gateway      ports.PaymentGateway
	verifier     ports.SignatureVerifier
	sessionCache ports.DownloadSessionCache
	files        ports.FileStore
	tokens       ports.DownloadTokenGenerator
	signer       ports.TokenSigner
	hasher       ports.PasswordHasher
	publisher    ports.EventPublisher

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Transactions ports.TransactionRepository
	Downloads    ports.DownloadSessionRepository
	Projects     ports.ProjectRepository
	Users        ports.UserRepository
	Webhooks     ports.WebhookRepository
	Outbox       ports.OutboxRepository

	Gateway      ports.PaymentGateway
	Verifier     ports.SignatureVerifier
	SessionCache ports.DownloadSessionCache
	Files        ports.FileStore
	Tokens       ports.DownloadTokenGenerator
	Signer       ports.TokenSigner
	Hasher       ports.PasswordHasher
	Publisher    ports.EventPublisher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "vibecoder-fulfillment"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "INR"
	}
	if cfg.PlatformFeeBasisPoints <= 0 {
		cfg.PlatformFeeBasisPoints = 1000
	}
	if cfg.DownloadTTL <= 0 {
		cfg.DownloadTTL = 24 * time.Hour
	}
	if cfg.MaxDownloads <= 0 {
		cfg.MaxDownloads = 5
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.OutboxFlushBatchSize <= 0 {
		cfg.OutboxFlushBatchSize = 100
	}

	return &Service{
		cfg:          cfg,
		transactions: deps.Transactions,
		downloads:    deps.Downloads,
		projects:     deps.Projects,
		users:        deps.Users,
		webhooks:     deps.Webhooks,
		outbox:       deps.Outbox,
		gateway:      deps.Gateway,
		verifier:     deps.Verifier,
		sessionCache: deps.SessionCache,
		files:        deps.Files,
		tokens:       deps.Tokens,
		signer:       deps.Signer,
		hasher:       deps.Hasher,
		publisher:    deps.Publisher,
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}
