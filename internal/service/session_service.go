package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

// SessionService maps opaque cookie tokens to users with a rolling expiry.
type SessionService struct {
	repo repository.SessionRepo
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionService(repo repository.SessionRepo, ttl time.Duration) *SessionService {
	return &SessionService{repo: repo, ttl: ttl, now: time.Now}
}

// Start creates a fresh session for userID.
func (s *SessionService) Start(ctx context.Context, userID int64) (models.Session, error) {
	now := s.now().UTC()
	sess := models.Session{
		Token:        uuid.NewString(),
		UserID:       userID,
		ExpiresAt:    now.Add(s.ttl),
		LastActivity: now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("start session: %w", err)
	}
	return sess, nil
}

// Resolve returns the live session behind token. Expired sessions are removed.
// When less than half of the TTL is left the expiry is pushed forward and renewed is true.
func (s *SessionService) Resolve(ctx context.Context, token string) (sess models.Session, renewed bool, err error) {
	if token == "" {
		return models.Session{}, false, ErrSessionNotFound
	}
	found, err := s.repo.Get(ctx, token)
	if err != nil {
		return models.Session{}, false, fmt.Errorf("resolve session: %w", err)
	}
	if found == nil {
		return models.Session{}, false, ErrSessionNotFound
	}

	now := s.now().UTC()
	if !now.Before(found.ExpiresAt) {
		if err := s.repo.Delete(ctx, token); err != nil {
			return models.Session{}, false, fmt.Errorf("drop expired session: %w", err)
		}
		return models.Session{}, false, ErrSessionNotFound
	}

	if found.ExpiresAt.Sub(now) < s.ttl/2 {
		expiresAt := now.Add(s.ttl)
		if err := s.repo.Renew(ctx, token, expiresAt); err != nil {
			return models.Session{}, false, fmt.Errorf("renew session: %w", err)
		}
		found.ExpiresAt = expiresAt
		found.LastActivity = now
		renewed = true
	}
	return *found, renewed, nil
}

// End drops the session; unknown tokens are not an error.
func (s *SessionService) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, token); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return n, nil
}

// TTL is the configured session lifetime.
func (s *SessionService) TTL() time.Duration { return s.ttl }
