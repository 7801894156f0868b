package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

const testSessionToken = "sess-1"

var (
	testUser     = &models.User{ID: 7, Username: "alice", Email: "alice@example.com"}
	testFlashKey = []byte("flash-key-for-tests")
)

// loggedInServices returns services where testSessionToken resolves to testUser.
func loggedInServices() (*service.Service, *mockSessions, *mockExpenses, *mockActivity) {
	sessions := &mockSessions{byToken: map[string]models.Session{
		testSessionToken: {Token: testSessionToken, UserID: testUser.ID, ExpiresAt: time.Now().Add(time.Hour)},
	}}
	expenses := &mockExpenses{cats: []models.Category{{ID: 1, Name: "Food"}}}
	activity := &mockActivity{}
	s := &service.Service{
		Authorization: &mockAuth{users: map[int64]*models.User{testUser.ID: testUser}},
		Sessions:      sessions,
		Expenses:      expenses,
		Summaries:     &mockSummaries{},
		ActivityLog:   activity,
	}
	return s, sessions, expenses, activity
}

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, append([]Option{WithFlashKey(testFlashKey)}, opts...)...)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: testSessionToken})
	return req
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeFlash(t *testing.T, w *httptest.ResponseRecorder) flash {
	t.Helper()
	c := findCookie(w, flashCookieName)
	require.NotNil(t, c, "flash cookie not set")
	f, err := parseFlash(testFlashKey, c.Value)
	require.NoError(t, err)
	return *f
}

func newGinContext(w *httptest.ResponseRecorder, req *http.Request) (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, e := gin.CreateTestContext(w)
	c.Request = req
	return c, e
}
