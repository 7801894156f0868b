package models

import "github.com/shopspring/decimal"

// CategoryTotal aggregates one category of a user's expenses.
type CategoryTotal struct {
	CategoryName string          `json:"category_name"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// Summary is the snapshot of a user's spending.
type Summary struct {
	Count           int             `json:"count"`
	Total           decimal.Decimal `json:"total"`
	LastExpenseDate *Date           `json:"last_expense_date,omitempty"`
	ByCategory      []CategoryTotal `json:"by_category"`
}
