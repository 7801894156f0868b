package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 5 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_small", "/ws?interval=10ms", 5 * time.Second},
		{"interval_too_large", "/ws?interval=2m", 5 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=120000", 5 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 5 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 5 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

type wsEnvelopeIn struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialSummaryStream(t *testing.T, s *service.Service, query url.Values) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(s))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/api/v1/ws"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_SummaryStream_InitialAndPeriodic(t *testing.T) {
	sum := &mockSummaries{summary: models.Summary{
		Count: 2,
		Total: decimal.RequireFromString("12.50"),
		ByCategory: []models.CategoryTotal{
			{CategoryName: "Food", Count: 2, Total: decimal.RequireFromString("12.50")},
		},
	}}
	auth := &mockAuth{parseID: 5}
	s := &service.Service{Authorization: auth, Summaries: sum}

	// browsers pass the token as a query parameter on the handshake
	conn := dialSummaryStream(t, s, url.Values{
		"access_token": {"tok"},
		"interval_ms":  {"100"},
	})

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env wsEnvelopeIn
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "summary" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var got models.Summary
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if got.Count != 2 || !got.Total.Equal(decimal.RequireFromString("12.5")) || len(got.ByCategory) != 1 {
		t.Fatalf("unexpected summary: %+v", got)
	}

	// Read a subsequent tick
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = wsEnvelopeIn{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "summary" {
		t.Fatalf("expected type=summary, got %+v", env)
	}
}

func TestWebSocket_SummaryError_ReportsAndCloses(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseID: 5},
		Summaries:     &mockSummaries{err: errors.New("boom")},
	}
	conn := dialSummaryStream(t, s, url.Values{"access_token": {"tok"}})

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var env wsEnvelopeIn
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read error envelope: %v", err)
	}
	if env.Type != "error" || env.Error == "" {
		t.Fatalf("expected error envelope, got %+v", env)
	}

	// The server closes after reporting the failure
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}

func TestWebSocket_RequiresToken(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&service.Service{Authorization: &mockAuth{}}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/api/v1/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err == nil {
		t.Fatal("expected handshake failure without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}
