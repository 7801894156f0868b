package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

const (
	maxDescriptionLen   = 255
	maxPaymentMethodLen = 50
	maxCategoryNameLen  = 100
)

// maxAmount is the first value that no longer fits DECIMAL(12,2).
var maxAmount = decimal.New(1, 10)

type ExpenseService struct {
	categories repository.CategoryRepo
	expenses   repository.ExpenseRepo
}

func NewExpenseService(categories repository.CategoryRepo, expenses repository.ExpenseRepo) *ExpenseService {
	return &ExpenseService{categories: categories, expenses: expenses}
}

func (s *ExpenseService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// SeedCategories makes sure every configured default category exists.
func (s *ExpenseService) SeedCategories(ctx context.Context, names []string) (int, error) {
	return s.categories.EnsureSeeded(ctx, names)
}

// Add stores a new expense for userID. A non-empty CustomCategory wins over CategoryID.
func (s *ExpenseService) Add(ctx context.Context, userID int64, in models.ExpenseInput) (models.Expense, error) {
	in = normalizeInput(in)
	if err := validateInput(in, true); err != nil {
		return models.Expense{}, err
	}

	if in.CustomCategory == "" {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return models.Expense{}, err
		}
	}

	e := expenseFromInput(in)
	e.UserID = userID
	id, categoryID, err := s.expenses.Create(ctx, e, in.CustomCategory)
	if err != nil {
		return models.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	e.ID = id
	e.CategoryID = categoryID
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, userID int64) ([]models.ExpenseView, error) {
	return s.expenses.ListForUser(ctx, userID)
}

// Get returns the expense if it exists and belongs to userID; otherwise ErrExpenseNotFound.
func (s *ExpenseService) Get(ctx context.Context, userID, expenseID int64) (*models.Expense, error) {
	e, err := s.expenses.Get(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if e == nil || e.UserID != userID {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// Update overwrites every mutable field of the caller's expense.
func (s *ExpenseService) Update(ctx context.Context, userID, expenseID int64, in models.ExpenseInput) (models.Expense, error) {
	in = normalizeInput(in)
	in.CustomCategory = ""
	if err := validateInput(in, false); err != nil {
		return models.Expense{}, err
	}

	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return models.Expense{}, err
	}

	e := expenseFromInput(in)
	e.ID = expenseID
	e.UserID = userID
	ok, err := s.expenses.Update(ctx, e)
	if err != nil {
		return models.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if !ok {
		return models.Expense{}, ErrExpenseNotFound
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID int64) error {
	ok, err := s.expenses.Delete(ctx, userID, expenseID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if !ok {
		return ErrExpenseNotFound
	}
	return nil
}

func (s *ExpenseService) checkCategory(ctx context.Context, id int64) error {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for _, c := range cats {
		if c.ID == id {
			return nil
		}
	}
	return &ValidationError{Problems: []string{"category does not exist"}}
}

func normalizeInput(in models.ExpenseInput) models.ExpenseInput {
	in.CustomCategory = strings.TrimSpace(in.CustomCategory)
	in.Description = strings.TrimSpace(in.Description)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.Amount = in.Amount.Round(2)
	return in
}

func validateInput(in models.ExpenseInput, allowCustom bool) error {
	v := &validator{}
	v.check(in.Amount.IsPositive(), "amount must be greater than zero")
	v.check(in.Amount.LessThan(maxAmount), "amount is too large")
	v.check(!in.Date.IsZero(), "date is required")
	if allowCustom && in.CustomCategory != "" {
		v.check(len(in.CustomCategory) <= maxCategoryNameLen, "category name must be at most %d characters", maxCategoryNameLen)
	} else {
		v.check(in.CategoryID > 0, "category is required")
	}
	v.check(len(in.Description) <= maxDescriptionLen, "description must be at most %d characters", maxDescriptionLen)
	v.check(in.PaymentMethod != "", "payment method is required")
	v.check(len(in.PaymentMethod) <= maxPaymentMethodLen, "payment method must be at most %d characters", maxPaymentMethodLen)
	return v.err()
}

func expenseFromInput(in models.ExpenseInput) models.Expense {
	return models.Expense{
		Amount:        in.Amount,
		Date:          in.Date,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		PaymentMethod: in.PaymentMethod,
	}
}
