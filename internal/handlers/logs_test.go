package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

func newActivityRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}

func TestActivityHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{parseID: 99}
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.ActivityEvent{
		{EventID: "e1", UserID: 99, OccurredAt: now, Type: models.EventLogin, Description: "logged in"},
		{EventID: "e2", UserID: 99, OccurredAt: now.Add(1 * time.Second), Type: models.EventExpenseAdded, Description: "expense added"},
	}
	logs := &mockActivity{resp: events}
	s := &service.Service{
		Authorization: auth,
		ActivityLog:   logs,
	}
	r := newTestRouter(s)

	// Missing/invalid 'from' → 400
	w := httptest.NewRecorder()
	r.ServeHTTP(w, newActivityRequest("/api/v1/activity?from=notatime"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// Reversed range → 400
	w = httptest.NewRecorder()
	r.ServeHTTP(w, newActivityRequest("/api/v1/activity?from=2025-08-02&to=2025-08-01T00:00:00Z"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 reversed range, got %d", w.Code)
	}

	// Valid range and type (lowercase type is normalized to upper before the service call)
	w = httptest.NewRecorder()
	q := "/api/v1/activity?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=expense_added"
	r.ServeHTTP(w, newActivityRequest(q))
	if w.Code != http.StatusOK {
		t.Fatalf("activity status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                    `json:"count"`
		Events []models.ActivityEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastType != models.EventExpenseAdded {
		t.Fatalf("expected lastType EXPENSE_ADDED, got %q", logs.lastType)
	}
	if logs.lastUser != 99 {
		t.Fatalf("expected events for user 99, got %d", logs.lastUser)
	}
}

func TestActivityHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	logs := &mockActivity{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, ActivityLog: logs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newActivityRequest("/api/v1/activity?to=2025-08-31"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	want := time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC)
	if !logs.lastTo.Equal(want) {
		t.Fatalf("to=%v, want %v", logs.lastTo, want)
	}

	var out struct {
		Count  int               `json:"count"`
		Events []json.RawMessage `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Events == nil || out.Count != 0 {
		t.Fatalf("expected empty events array, got %s", w.Body.String())
	}
}

func TestActivityHandler_ServiceError(t *testing.T) {
	logs := &mockActivity{err: errors.New("db down")}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, ActivityLog: logs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newActivityRequest("/api/v1/activity"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestParseQueryTime(t *testing.T) {
	for _, s := range []string{"2025-08-27T15:04:05Z", "2025-08-27 15:04:05", "2025-08-27"} {
		if _, err := parseQueryTime(s); err != nil {
			t.Fatalf("parseQueryTime(%q): %v", s, err)
		}
	}
	if _, err := parseQueryTime("27/08/2025"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}
