package handlers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlash_SignAndParse(t *testing.T) {
	raw, err := signFlash(testFlashKey, flash{Kind: flashSuccess, Message: msgAdded}, time.Now())
	require.NoError(t, err)

	f, err := parseFlash(testFlashKey, raw)
	require.NoError(t, err)
	assert.Equal(t, flash{Kind: flashSuccess, Message: msgAdded}, *f)

	_, err = parseFlash([]byte("another-key"), raw)
	assert.Error(t, err)
}

func TestFlash_ParseRejects(t *testing.T) {
	expired, err := signFlash(testFlashKey, flash{Kind: flashSuccess, Message: "old"}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	empty, err := signFlash(testFlashKey, flash{Kind: flashSuccess}, time.Now())
	require.NoError(t, err)

	cases := map[string]string{
		"unsigned json": base64.RawURLEncoding.EncodeToString([]byte(`{"k":"success","m":"You won!"}`)),
		"expired":       expired,
		"empty message": empty,
		"garbage":       "not-a-token",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseFlash(testFlashKey, raw)
			assert.Error(t, err)
		})
	}
}

func TestFlash_ForgedCookieNotRendered(t *testing.T) {
	s, _, _, _ := loggedInServices()
	r := newTestRouter(s)

	forged, err := signFlash([]byte("attacker-key"), flash{Kind: flashSuccess, Message: "Account verified by admin"}, time.Now())
	require.NoError(t, err)

	req := withSession(httptest.NewRequest(http.MethodGet, "/expenses", nil))
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: forged})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Account verified by admin")
	cleared := findCookie(w, flashCookieName)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)
}
