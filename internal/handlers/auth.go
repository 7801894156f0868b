package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

// signUpRequest is the JSON body of /auth/sign-up.
type signUpRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// signInRequest is the JSON body of /auth/sign-in.
type signInRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "New account"
// @Success      200   {object}  map[string]int64  "id"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.Authorization.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		h.log.Infow("auth_sign_up_failed", "email", input.Email, "err", err)
		h.jsonServiceError(c, "auth_sign_up_failed", err)
		return
	}

	h.recordActivity(c, id, models.EventRegister, "account created", gin.H{"via": "api"})
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in
// @Description  Returns a bearer token for /api/v1.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  map[string]string  "token"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Authorization.GenerateToken(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailure) {
			h.log.Infow("auth_sign_in_failed", "client_ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_sign_in_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
