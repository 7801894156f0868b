package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

// User-facing flash texts.
const (
	msgRegistered = "Registration successful! Please log in."
	msgLoggedIn   = "Login successful!"
	msgBadLogin   = "Invalid email or password."
	msgLoggedOut  = "You have been logged out."
	msgEmailTaken = "An account with this email already exists."
	msgAdded      = "Expense added successfully!"
	msgUpdated    = "Expense updated successfully!"
	msgDeleted    = "Expense deleted successfully!"
	msgBadForm    = "The form could not be read. Please submit it again."
)

type registerForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *Handler) indexPage(c *gin.Context) {
	h.render(c, http.StatusOK, "index.html", page{})
}

func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", page{Title: "Register"})
}

func (h *Handler) registerSubmit(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Infow("bad_request_form", "path", c.FullPath(), "err", err)
		h.render(c, http.StatusBadRequest, "register.html", page{Title: "Register", Error: msgBadForm})
		return
	}

	ctx := c.Request.Context()
	id, err := h.services.Authorization.Register(ctx, form.Username, form.Email, form.Password)
	if err != nil {
		p := page{Title: "Register", Username: form.Username, Email: form.Email}
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			p.Error = verr.Error()
			h.render(c, http.StatusBadRequest, "register.html", p)
		case errors.Is(err, service.ErrDuplicateEmail):
			p.Error = msgEmailTaken
			h.render(c, http.StatusConflict, "register.html", p)
		default:
			h.pageServiceError(c, "register_failed", err)
		}
		return
	}

	h.recordActivity(c, id, models.EventRegister, "account created", nil)
	h.redirectWithFlash(c, "/login", flashSuccess, msgRegistered)
}

func (h *Handler) loginPage(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/expenses")
		return
	}
	h.render(c, http.StatusOK, "login.html", page{Title: "Log in"})
}

func (h *Handler) loginSubmit(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Infow("bad_request_form", "path", c.FullPath(), "err", err)
		h.render(c, http.StatusBadRequest, "login.html", page{Title: "Log in", Error: msgBadForm})
		return
	}

	ctx := c.Request.Context()
	user, err := h.services.Authorization.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailure) {
			h.log.Infow("login_failed", "client_ip", c.ClientIP())
			h.render(c, http.StatusUnauthorized, "login.html", page{
				Title: "Log in",
				Email: form.Email,
				Flash: &flash{Kind: flashDanger, Message: msgBadLogin},
			})
			return
		}
		h.pageServiceError(c, "login_failed", err)
		return
	}

	// a login replaces whatever session the browser had
	if token, _ := c.Cookie(h.cookieName); token != "" {
		if err := h.services.Sessions.End(ctx, token); err != nil {
			h.log.Warnw("session_end_failed", "err", err)
		}
	}
	sess, err := h.services.Sessions.Start(ctx, user.ID)
	if err != nil {
		h.pageServiceError(c, "session_start_failed", err, "user_id", user.ID)
		return
	}
	h.setSessionCookie(c, sess)
	h.recordActivity(c, user.ID, models.EventLogin, "signed in", gin.H{"client_ip": c.ClientIP()})
	h.redirectWithFlash(c, "/expenses", flashSuccess, msgLoggedIn)
}

func (h *Handler) logout(c *gin.Context) {
	token := c.GetString(sessionTokenCtx)
	if err := h.services.Sessions.End(c.Request.Context(), token); err != nil {
		h.log.Errorw("session_end_failed", "err", err)
	}
	h.clearSessionCookie(c)
	h.recordActivity(c, userID(c), models.EventLogout, "signed out", nil)
	h.redirectWithFlash(c, "/", flashSuccess, msgLoggedOut)
}

// recordActivity appends to the activity log; failures are logged and never fail the request.
func (h *Handler) recordActivity(c *gin.Context, uid int64, typ, description string, meta any) {
	if h.services.ActivityLog == nil {
		return
	}
	if err := h.services.ActivityLog.Record(c.Request.Context(), uid, typ, description, meta); err != nil {
		h.log.Warnw("activity_record_failed", "err", err, "user_id", uid, "type", typ)
	}
}
