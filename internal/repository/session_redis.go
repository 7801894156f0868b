package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"expense_tracker/internal/models"
)

// SessionRedis keeps sessions as JSON values whose key TTL follows the session expiry.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	return &SessionRedis{client: client, prefix: prefix}
}

var _ SessionRepo = (*SessionRedis)(nil)

func (r *SessionRedis) key(token string) string {
	return r.prefix + token
}

func (r *SessionRedis) Create(ctx context.Context, s models.Session) error {
	if s.LastActivity.IsZero() {
		s.LastActivity = time.Now().UTC()
	}
	return r.put(ctx, s)
}

func (r *SessionRedis) put(ctx context.Context, s models.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, s.Token)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.Token), b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *SessionRedis) Get(ctx context.Context, token string) (*models.Session, error) {
	b, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var s models.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *SessionRedis) Renew(ctx context.Context, token string, expiresAt time.Time) error {
	s, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	s.ExpiresAt = expiresAt.UTC()
	s.LastActivity = time.Now().UTC()
	return r.put(ctx, *s)
}

func (r *SessionRedis) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: redis evicts keys when their TTL runs out.
func (r *SessionRedis) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
