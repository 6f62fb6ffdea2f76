package postgres

import "gorm.io/gorm"

// Repositories bundles every store backed by the service database so the
// bootstrap wires a single value into the application layer.
type Repositories struct {
	Transactions *TransactionRepository
	Downloads    *DownloadSessionRepository
	Projects     *ProjectRepository
	Users        *UserRepository
	Webhooks     *WebhookRepository
	Outbox       *OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Transactions: NewTransactionRepository(db),
		Downloads:    NewDownloadSessionRepository(db),
		Projects:     NewProjectRepository(db),
		Users:        NewUserRepository(db),
		Webhooks:     NewWebhookRepository(db),
		Outbox:       NewOutboxRepository(db),
	}
}
