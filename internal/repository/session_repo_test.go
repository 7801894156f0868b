package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"expense_tracker/internal/models"
)

func TestSessionSQL_CreateAndGet(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionSQL(db)

	exp := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	seen := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
		WithArgs("tok", int64(3), "2025-01-08 10:00:00.000000", "2025-01-01 10:00:00.000000").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expires_at", "last_activity"}).
			AddRow("tok", 3, exp, seen))

	if err := repo.Create(ctx(t), models.Session{Token: "tok", UserID: 3, ExpiresAt: exp, LastActivity: seen}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s, err := repo.Get(ctx(t), "tok")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s == nil || s.UserID != 3 || !s.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestSessionSQL_GetUnknown(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionSQL(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"token"}))

	s, err := repo.Get(ctx(t), "nope")
	if err != nil || s != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", s, err)
	}
}

func TestSessionSQL_DeleteExpired(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionSQL(db)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))
	mock.ExpectExec(regexp.QuoteMeta(deleteExpiredSessionsSQL)).
		WithArgs("2024-12-31 23:00:00.000000").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteExpired(ctx(t), now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 4 {
		t.Fatalf("want 4, got %d", n)
	}
}
