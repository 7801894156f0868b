package models

import "github.com/shopspring/decimal"

// Category groups expenses; names are free text chosen by users or seeded at startup.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Expense is a single spending record owned by one user.
type Expense struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	CategoryID    int64           `json:"category_id"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"` // cash | card | transfer | ... (free text)
}

// ExpenseView is an Expense joined with its category name, as listed to the owner.
type ExpenseView struct {
	Expense
	CategoryName string `json:"category_name"`
}

// ExpenseInput carries the user-editable fields of an expense.
// CustomCategory, when set, takes precedence over CategoryID on create.
type ExpenseInput struct {
	Amount         decimal.Decimal
	Date           Date
	CategoryID     int64
	CustomCategory string
	Description    string
	PaymentMethod  string
}
