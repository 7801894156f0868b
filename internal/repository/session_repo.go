package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"expense_tracker/internal/models"
)

// timestampLayout is how instants are written to TIMESTAMP/DATETIME columns.
// A fixed-width UTC text form keeps string comparison in SQLite equal to time order.
const timestampLayout = "2006-01-02 15:04:05.000000"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

type SessionSQL struct {
	db *sql.DB
}

func NewSessionSQL(db *sql.DB) *SessionSQL {
	return &SessionSQL{db: db}
}

var _ SessionRepo = (*SessionSQL)(nil)

const (
	insertSessionSQL         = `INSERT INTO sessions (token, user_id, expires_at, last_activity) VALUES (?, ?, ?, ?)`
	selectSessionSQL         = `SELECT token, user_id, expires_at, last_activity FROM sessions WHERE token = ?`
	renewSessionSQL          = `UPDATE sessions SET expires_at = ?, last_activity = ? WHERE token = ?`
	deleteSessionSQL         = `DELETE FROM sessions WHERE token = ?`
	deleteExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

func (r *SessionSQL) Create(ctx context.Context, s models.Session) error {
	if s.LastActivity.IsZero() {
		s.LastActivity = time.Now()
	}
	_, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.Token, s.UserID, formatTimestamp(s.ExpiresAt), formatTimestamp(s.LastActivity))
	if err != nil {
		return fmt.Errorf("insert session for user %d: %w", s.UserID, err)
	}
	return nil
}

// Get returns (nil, nil) for unknown tokens; expiry is checked by the caller.
func (r *SessionSQL) Get(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, selectSessionSQL, token).
		Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.LastActivity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.LastActivity = s.LastActivity.UTC()
	return &s, nil
}

func (r *SessionSQL) Renew(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, renewSessionSQL,
		formatTimestamp(expiresAt), formatTimestamp(time.Now()), token)
	if err != nil {
		return fmt.Errorf("renew session: %w", err)
	}
	return nil
}

func (r *SessionSQL) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionSQL, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionSQL) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSessionsSQL, formatTimestamp(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions rows affected: %w", err)
	}
	return n, nil
}
