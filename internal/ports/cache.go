package ports

import (
	"context"
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

// DownloadSessionCache keeps hot token lookups off the database. Entries are
// advisory: the database row remains the source of truth and the cache is
// invalidated on every session mutation.
type DownloadSessionCache interface {
	Get(ctx context.Context, token string) (*domain.DownloadSession, error)
	Set(ctx context.Context, session domain.DownloadSession, ttl time.Duration) error
	Invalidate(ctx context.Context, token string) error
}
