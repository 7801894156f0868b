package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errInternal        = "internal error"
	errStoreFailure    = "Error connecting to database."
	errExpenseNotFound = "expense not found"
	errInvalidID       = "invalid expense id"
	errInvalidBodyPref = "invalid body: "
)

// page is the data passed to every HTML template.
type page struct {
	Title string
	User  *models.User
	Flash *flash

	Error   string
	Status  int
	Message string

	Username string
	Email    string

	Form           expenseForm
	ExpenseID      int64
	Categories     []models.Category
	PaymentMethods []string

	Expenses []models.ExpenseView
	Total    decimal.Decimal
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// jsonServiceError maps service sentinels to status codes; anything else is a logged 500.
func (h *Handler) jsonServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "problems": verr.Problems})
	case errors.Is(err, service.ErrExpenseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errExpenseNotFound})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAuthFailure):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, kv...)
	}
}

// render writes an HTML page, filling in the current user and pending flash message.
func (h *Handler) render(c *gin.Context, code int, name string, p page) {
	if p.User == nil {
		p.User = currentUser(c)
	}
	if p.Flash == nil {
		p.Flash = h.popFlash(c)
	}
	c.HTML(code, name, p)
}

// renderError shows the generic error page. Store failures never reveal their cause.
func (h *Handler) renderError(c *gin.Context, code int, message string) {
	h.render(c, code, "error.html", page{Title: http.StatusText(code), Status: code, Message: message})
}

// pageServiceError is the HTML counterpart of jsonServiceError for failures that are not form errors.
func (h *Handler) pageServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if errors.Is(err, service.ErrExpenseNotFound) {
		h.renderError(c, http.StatusNotFound, "Expense not found.")
		return
	}
	h.log.Errorw(logKey, append([]interface{}{"err", err}, kv...)...)
	h.renderError(c, http.StatusInternalServerError, errStoreFailure)
}

func (h *Handler) notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.HasPrefix(c.Request.URL.Path, "/auth/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.renderError(c, http.StatusNotFound, "Page not found.")
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
