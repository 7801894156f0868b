package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

// gin context keys
const (
	userCtx         = "userId"
	userObjCtx      = "user"
	sessionTokenCtx = "sessionToken"
)

// loadSession resolves the session cookie and its user.
// ok is false for anonymous requests; err is set only for store failures.
func (h *Handler) loadSession(c *gin.Context) (ok bool, err error) {
	token, cerr := c.Cookie(h.cookieName)
	if cerr != nil || token == "" {
		return false, nil
	}

	ctx := c.Request.Context()
	sess, renewed, err := h.services.Sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			h.clearSessionCookie(c)
			return false, nil
		}
		return false, err
	}

	user, err := h.services.Authorization.User(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailure) {
			h.clearSessionCookie(c)
			return false, nil
		}
		return false, err
	}

	if renewed {
		h.setSessionCookie(c, sess)
	}
	c.Set(userCtx, sess.UserID)
	c.Set(userObjCtx, user)
	c.Set(sessionTokenCtx, token)
	return true, nil
}

// optionalSession attaches the user when logged in and never blocks the request.
func (h *Handler) optionalSession(c *gin.Context) {
	if _, err := h.loadSession(c); err != nil {
		h.log.Errorw("session_resolve_failed", "err", err)
	}
	c.Next()
}

// requireSession gates the private pages: anonymous requests go to /login untouched.
func (h *Handler) requireSession(c *gin.Context) {
	ok, err := h.loadSession(c)
	if err != nil {
		h.log.Errorw("session_resolve_failed", "err", err)
		h.renderError(c, http.StatusInternalServerError, errStoreFailure)
		c.Abort()
		return
	}
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) setSessionCookie(c *gin.Context, sess models.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userObjCtx)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// userID returns the authenticated user id set by either gate.
func userID(c *gin.Context) int64 {
	return c.GetInt64(userCtx)
}
