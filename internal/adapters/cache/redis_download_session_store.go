package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

// RedisDownloadSessionStore caches token lookups for the streaming hot path.
// Misses fall through to Postgres; entries are dropped on every mutation so
// stale grants cannot outlive a revocation.
type RedisDownloadSessionStore struct {
	client *redis.Client
}

func NewRedisDownloadSessionStore(client *redis.Client) *RedisDownloadSessionStore {
	return &RedisDownloadSessionStore{client: client}
}

type cachedSession struct {
	Session domain.DownloadSession `json:"session"`
	Token   string                 `json:"token"`
}

func (s *RedisDownloadSessionStore) Get(ctx context.Context, token string) (*domain.DownloadSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var entry cachedSession
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	session := entry.Session
	session.Token = entry.Token
	return &session, nil
}

func (s *RedisDownloadSessionStore) Set(ctx context.Context, session domain.DownloadSession, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Until(session.ExpiresAt)
	}
	if ttl <= 0 {
		return nil
	}
	// The token field is json:"-" on the domain struct, so it rides alongside.
	raw, err := json.Marshal(cachedSession{Session: session, Token: session.Token})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.Token), raw, ttl).Err()
}

func (s *RedisDownloadSessionStore) Invalidate(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return "dl:session:" + token
}
