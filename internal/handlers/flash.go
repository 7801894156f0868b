package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	flashCookieName = "flash"
	flashTTL        = 5 * time.Minute
)

// Flash kinds, used as CSS class suffixes.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
)

var errEmptyFlash = errors.New("empty flash message")

// flash is a one-shot message shown on the next rendered page.
type flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

// flashClaims carries a flash inside an HS256 token so clients cannot forge banners.
type flashClaims struct {
	flash
	jwt.RegisteredClaims
}

func signFlash(key []byte, f flash, now time.Time) (string, error) {
	claims := flashClaims{
		flash: f,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func parseFlash(key []byte, raw string) (*flash, error) {
	var claims flashClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Message == "" {
		return nil, errEmptyFlash
	}
	return &claims.flash, nil
}

func (h *Handler) setFlash(c *gin.Context, kind, message string) {
	token, err := signFlash(h.flashKey, flash{Kind: kind, Message: message}, time.Now())
	if err != nil {
		h.log.Errorw("flash_sign_failed", "err", err)
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(flashTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending message, if any, and clears the cookie.
// Tampered or expired cookies are dropped silently.
func (h *Handler) popFlash(c *gin.Context) *flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	f, err := parseFlash(h.flashKey, raw)
	if err != nil {
		h.log.Debugw("flash_rejected", "err", err)
		return nil
	}
	return f
}

// redirectWithFlash sets a flash message and answers 303 See Other.
func (h *Handler) redirectWithFlash(c *gin.Context, location, kind, message string) {
	h.setFlash(c, kind, message)
	c.Redirect(http.StatusSeeOther, location)
}
