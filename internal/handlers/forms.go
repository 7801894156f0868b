package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

// paymentMethods are offered in the HTML forms; the stored value stays free text.
var paymentMethods = []string{"Cash", "Credit Card", "Debit Card", "Bank Transfer", "Other"}

// expenseForm mirrors the add/update HTML forms. Values stay raw so a rejected
// submission can be shown back to the user unchanged.
type expenseForm struct {
	Amount         string `form:"amount"`
	Date           string `form:"date"`
	Category       string `form:"category"`
	CustomCategory string `form:"custom_category"`
	Description    string `form:"description"`
	PaymentMethod  string `form:"payment_method"`
}

// toInput parses the raw form; field-level problems come back as a *service.ValidationError.
func (f expenseForm) toInput() (models.ExpenseInput, error) {
	var (
		in       models.ExpenseInput
		problems []string
	)

	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		problems = append(problems, "amount must be a number")
	}
	in.Amount = amount

	date, err := models.ParseDate(f.Date)
	if err != nil {
		problems = append(problems, err.Error())
	}
	in.Date = date

	in.CustomCategory = strings.TrimSpace(f.CustomCategory)
	if c := strings.TrimSpace(f.Category); c != "" {
		id, err := strconv.ParseInt(c, 10, 64)
		if err != nil && in.CustomCategory == "" {
			problems = append(problems, "category is not valid")
		}
		in.CategoryID = id
	}

	in.Description = f.Description
	in.PaymentMethod = f.PaymentMethod

	if len(problems) > 0 {
		return models.ExpenseInput{}, &service.ValidationError{Problems: problems}
	}
	return in, nil
}

func formFromExpense(e models.Expense) expenseForm {
	return expenseForm{
		Amount:        e.Amount.StringFixed(2),
		Date:          e.Date.String(),
		Category:      strconv.FormatInt(e.CategoryID, 10),
		Description:   e.Description,
		PaymentMethod: e.PaymentMethod,
	}
}

func newExpenseForm(now time.Time) expenseForm {
	return expenseForm{Date: now.Format(models.DateLayout), PaymentMethod: paymentMethods[0]}
}

// paymentChoices keeps a stored method selectable even when it is not one of the defaults.
func paymentChoices(current string) []string {
	if current == "" {
		return paymentMethods
	}
	for _, m := range paymentMethods {
		if m == current {
			return paymentMethods
		}
	}
	return append(append([]string{}, paymentMethods...), current)
}

// expenseRequest is the JSON body for creating or updating an expense.
type expenseRequest struct {
	Amount         decimal.Decimal `json:"amount" swaggertype:"string" example:"42.50"`
	Date           models.Date     `json:"date" swaggertype:"string" example:"2024-01-01"`
	CategoryID     int64           `json:"category_id" example:"1"`
	CustomCategory string          `json:"custom_category,omitempty" example:"Food"`
	Description    string          `json:"description" example:"lunch"`
	PaymentMethod  string          `json:"payment_method" example:"Cash"`
}

func (r expenseRequest) toInput() models.ExpenseInput {
	return models.ExpenseInput{
		Amount:         r.Amount,
		Date:           r.Date,
		CategoryID:     r.CategoryID,
		CustomCategory: r.CustomCategory,
		Description:    r.Description,
		PaymentMethod:  r.PaymentMethod,
	}
}
