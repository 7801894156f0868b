package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"expense_tracker/internal/models"
)

// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}   models.Category
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/categories [get]
// @Security     BearerAuth
func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.services.Expenses.Categories(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "category_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// @Summary      List expenses
// @Description  Caller's expenses, newest date first.
// @Tags         expenses
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, expenses"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/expenses [get]
// @Security     BearerAuth
func (h *Handler) listExpenses(c *gin.Context) {
	uid := userID(c)
	list, err := h.services.Expenses.List(c.Request.Context(), uid)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "expense_list_failed", err, "user_id", uid)
		return
	}
	if list == nil {
		list = []models.ExpenseView{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "expenses": list})
}

// @Summary      Create expense
// @Description  custom_category, when set, is used (or created) instead of category_id.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        body  body      expenseRequest  true  "Expense"
// @Success      201   {object}  models.Expense
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/expenses [post]
// @Security     BearerAuth
func (h *Handler) createExpense(c *gin.Context) {
	var req expenseRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	uid := userID(c)
	e, err := h.services.Expenses.Add(c.Request.Context(), uid, req.toInput())
	if err != nil {
		h.jsonServiceError(c, "expense_add_failed", err, "user_id", uid)
		return
	}
	h.recordActivity(c, uid, models.EventExpenseAdded,
		fmt.Sprintf("added %s", e.Amount.StringFixed(2)), gin.H{"expense_id": e.ID})
	c.JSON(http.StatusCreated, e)
}

// @Summary      Get expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      int  true  "Expense ID"
// @Success      200  {object}  models.Expense
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/expenses/{id} [get]
// @Security     BearerAuth
func (h *Handler) getExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errInvalidID})
		return
	}
	e, err := h.services.Expenses.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.jsonServiceError(c, "expense_get_failed", err, "expense_id", id)
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary      Update expense
// @Description  Overwrites every mutable field. Only the owner may update.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Expense ID"
// @Param        body  body      expenseRequest  true  "Expense"
// @Success      200   {object}  models.Expense
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/expenses/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errInvalidID})
		return
	}
	var req expenseRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	uid := userID(c)
	e, err := h.services.Expenses.Update(c.Request.Context(), uid, id, req.toInput())
	if err != nil {
		h.jsonServiceError(c, "expense_update_failed", err, "expense_id", id)
		return
	}
	h.recordActivity(c, uid, models.EventExpenseUpdated,
		fmt.Sprintf("updated expense %d", id), gin.H{"expense_id": id})
	c.JSON(http.StatusOK, e)
}

// @Summary      Delete expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      int  true  "Expense ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/expenses/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteExpenseAPI(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errInvalidID})
		return
	}
	uid := userID(c)
	if err := h.services.Expenses.Delete(c.Request.Context(), uid, id); err != nil {
		h.jsonServiceError(c, "expense_delete_failed", err, "expense_id", id)
		return
	}
	h.recordActivity(c, uid, models.EventExpenseDeleted,
		fmt.Sprintf("deleted expense %d", id), gin.H{"expense_id": id})
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary      Spending summary
// @Tags         expenses
// @Produce      json
// @Success      200  {object}  models.Summary
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/summary [get]
// @Security     BearerAuth
func (h *Handler) getSummary(c *gin.Context) {
	uid := userID(c)
	s, err := h.services.Summaries.Summary(c.Request.Context(), uid)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "summary_failed", err, "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, s)
}
