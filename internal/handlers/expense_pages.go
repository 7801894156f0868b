package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

func (h *Handler) addExpensePage(c *gin.Context) {
	h.renderExpenseForm(c, http.StatusOK, "add_expense.html", 0, newExpenseForm(time.Now()), "")
}

func (h *Handler) addExpenseSubmit(c *gin.Context) {
	var form expenseForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Infow("bad_request_form", "path", c.FullPath(), "err", err)
		h.renderExpenseForm(c, http.StatusBadRequest, "add_expense.html", 0, newExpenseForm(time.Now()), msgBadForm)
		return
	}

	uid := userID(c)
	in, err := form.toInput()
	if err == nil {
		var e models.Expense
		e, err = h.services.Expenses.Add(c.Request.Context(), uid, in)
		if err == nil {
			h.recordActivity(c, uid, models.EventExpenseAdded,
				fmt.Sprintf("added %s", e.Amount.StringFixed(2)), gin.H{"expense_id": e.ID})
			h.redirectWithFlash(c, "/expenses", flashSuccess, msgAdded)
			return
		}
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.renderExpenseForm(c, http.StatusBadRequest, "add_expense.html", 0, form, verr.Error())
		return
	}
	h.pageServiceError(c, "expense_add_failed", err, "user_id", uid)
}

func (h *Handler) viewExpensesPage(c *gin.Context) {
	uid := userID(c)
	expenses, err := h.services.Expenses.List(c.Request.Context(), uid)
	if err != nil {
		h.pageServiceError(c, "expense_list_failed", err, "user_id", uid)
		return
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	h.render(c, http.StatusOK, "view_expenses.html", page{Title: "My expenses", Expenses: expenses, Total: total})
}

func (h *Handler) updateExpensePage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, "Expense not found.")
		return
	}
	e, err := h.services.Expenses.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.pageServiceError(c, "expense_get_failed", err, "expense_id", id)
		return
	}
	h.renderExpenseForm(c, http.StatusOK, "update_expense.html", id, formFromExpense(*e), "")
}

func (h *Handler) updateExpenseSubmit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, "Expense not found.")
		return
	}
	var form expenseForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Infow("bad_request_form", "path", c.FullPath(), "err", err, "expense_id", id)
		h.renderExpenseForm(c, http.StatusBadRequest, "update_expense.html", id, expenseForm{}, msgBadForm)
		return
	}
	form.CustomCategory = ""

	uid := userID(c)
	in, err := form.toInput()
	if err == nil {
		_, err = h.services.Expenses.Update(c.Request.Context(), uid, id, in)
		if err == nil {
			h.recordActivity(c, uid, models.EventExpenseUpdated,
				fmt.Sprintf("updated expense %d", id), gin.H{"expense_id": id})
			h.redirectWithFlash(c, "/expenses", flashSuccess, msgUpdated)
			return
		}
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.renderExpenseForm(c, http.StatusBadRequest, "update_expense.html", id, form, verr.Error())
		return
	}
	h.pageServiceError(c, "expense_update_failed", err, "expense_id", id)
}

func (h *Handler) deleteExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, "Expense not found.")
		return
	}
	uid := userID(c)
	if err := h.services.Expenses.Delete(c.Request.Context(), uid, id); err != nil {
		h.pageServiceError(c, "expense_delete_failed", err, "expense_id", id)
		return
	}
	h.recordActivity(c, uid, models.EventExpenseDeleted,
		fmt.Sprintf("deleted expense %d", id), gin.H{"expense_id": id})
	h.redirectWithFlash(c, "/expenses", flashSuccess, msgDeleted)
}

func (h *Handler) renderExpenseForm(c *gin.Context, code int, name string, id int64, form expenseForm, problem string) {
	cats, err := h.services.Expenses.Categories(c.Request.Context())
	if err != nil {
		h.pageServiceError(c, "category_list_failed", err)
		return
	}
	title := "Add expense"
	if id != 0 {
		title = "Edit expense"
	}
	h.render(c, code, name, page{
		Title:          title,
		Error:          problem,
		Form:           form,
		ExpenseID:      id,
		Categories:     cats,
		PaymentMethods: paymentChoices(form.PaymentMethod),
	})
}
