package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"expense_tracker/internal/models"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

var eventCols = []string{"event_id", "user_id", "occurred_at", "type", "description", "meta"}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	// generated id and timestamp are unknown; type is normalized
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), int64(5), sqlmock.AnyArg(), "EXPENSE_ADDED", "added 12.50", `{"expense_id":9}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.ActivityEvent{
		UserID:      5,
		Type:        "  expense_added ",
		Description: "added 12.50",
		Metadata:    map[string]any{"expense_id": 9},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO activity_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.ActivityEvent{UserID: 1, Type: "login", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := sqlmock.NewRows(eventCols).
		AddRow("1", 4, now, "LOGIN", "m1", string(js)).
		AddRow("2", 4, now.Add(time.Hour), "LOGOUT", "m2", nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + ` WHERE user_id = ? ORDER BY occurred_at ASC`)).
		WithArgs(int64(4)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 4, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].EventID != "1" || got[1].EventID != "2" {
		t.Fatalf("unexpected ids: %v, %v", got[0].EventID, got[1].EventID)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectEventsSQL + ` WHERE user_id = ? AND occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC`

	rows := sqlmock.NewRows(eventCols).
		AddRow("2", 4, from, "EXPENSE_DELETED", "b", nil).
		AddRow("3", 4, to, "EXPENSE_DELETED", "c", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(4), "2025-01-01 11:00:00.000000", "2025-01-01 12:00:00.000000", "EXPENSE_DELETED").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 4, from, to, " expense_deleted ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows(eventCols).
		// occurred_at wrong type to force scan error
		AddRow("x", 4, 123, "LOGIN", "msg", nil)

	mock.ExpectQuery("SELECT event_id").WillReturnRows(rows)

	if _, err := repo.List(ctx(t), 4, time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
}
