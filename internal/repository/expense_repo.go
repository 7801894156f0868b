package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"expense_tracker/internal/models"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

var _ ExpenseRepo = (*ExpenseRepository)(nil)

const (
	insertExpenseSQL = `
		INSERT INTO expenses (user_id, amount, expense_date, category_id, description, payment_method)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectExpensesForUserSQL = `
		SELECT e.expense_id, e.user_id, e.amount, e.expense_date, e.category_id,
		       e.description, e.payment_method, c.category_name
		FROM expenses e
		JOIN categories c ON c.category_id = e.category_id
		WHERE e.user_id = ?
		ORDER BY e.expense_date DESC, e.expense_id DESC
	`

	selectExpenseSQL = `
		SELECT expense_id, user_id, amount, expense_date, category_id, description, payment_method
		FROM expenses WHERE expense_id = ?
	`

	updateExpenseSQL = `
		UPDATE expenses
		SET amount = ?, expense_date = ?, category_id = ?, description = ?, payment_method = ?
		WHERE expense_id = ? AND user_id = ?
	`

	deleteExpenseSQL = `DELETE FROM expenses WHERE expense_id = ? AND user_id = ?`

	summaryTotalsSQL = `
		SELECT COUNT(*), COALESCE(SUM(amount), 0), MAX(expense_date)
		FROM expenses WHERE user_id = ?
	`

	summaryByCategorySQL = `
		SELECT c.category_name, COUNT(*), COALESCE(SUM(e.amount), 0)
		FROM expenses e
		JOIN categories c ON c.category_id = e.category_id
		WHERE e.user_id = ?
		GROUP BY c.category_id, c.category_name
		ORDER BY c.category_name ASC
	`
)

// Create inserts an expense. When newCategory is set the category lookup/insert and the
// expense insert share one transaction, so a failed expense leaves no orphan category.
func (r *ExpenseRepository) Create(ctx context.Context, e models.Expense, newCategory string) (int64, int64, error) {
	newCategory = strings.TrimSpace(newCategory)
	if newCategory == "" {
		id, err := insertExpense(ctx, r.db, e)
		return id, e.CategoryID, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin add expense: %w", err)
	}
	defer tx.Rollback()

	categoryID, _, err := findOrCreateCategory(ctx, tx, newCategory)
	if err != nil {
		return 0, 0, err
	}
	e.CategoryID = categoryID

	expenseID, err := insertExpense(ctx, tx, e)
	if err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit add expense: %w", err)
	}
	return expenseID, categoryID, nil
}

func insertExpense(ctx context.Context, q queryer, e models.Expense) (int64, error) {
	res, err := q.ExecContext(ctx, insertExpenseSQL,
		e.UserID, e.Amount, e.Date, e.CategoryID, e.Description, e.PaymentMethod)
	if err != nil {
		return 0, fmt.Errorf("insert expense for user %d: %w", e.UserID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for expense: %w", err)
	}
	return id, nil
}

// ListForUser returns the user's expenses with category names, newest date first.
func (r *ExpenseRepository) ListForUser(ctx context.Context, userID int64) ([]models.ExpenseView, error) {
	rows, err := r.db.QueryContext(ctx, selectExpensesForUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select expenses for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.ExpenseView, 0, 32)
	for rows.Next() {
		var v models.ExpenseView
		if err := rows.Scan(&v.ID, &v.UserID, &v.Amount, &v.Date, &v.CategoryID,
			&v.Description, &v.PaymentMethod, &v.CategoryName); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Get returns the expense regardless of owner. Returns (nil, nil) if not found.
func (r *ExpenseRepository) Get(ctx context.Context, expenseID int64) (*models.Expense, error) {
	var e models.Expense
	err := r.db.QueryRowContext(ctx, selectExpenseSQL, expenseID).
		Scan(&e.ID, &e.UserID, &e.Amount, &e.Date, &e.CategoryID, &e.Description, &e.PaymentMethod)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select expense %d: %w", expenseID, err)
	}
	return &e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, e models.Expense) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateExpenseSQL,
		e.Amount, e.Date, e.CategoryID, e.Description, e.PaymentMethod, e.ID, e.UserID)
	if err != nil {
		return false, fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return affectedOne(res, "update expense")
}

func (r *ExpenseRepository) Delete(ctx context.Context, userID, expenseID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteExpenseSQL, expenseID, userID)
	if err != nil {
		return false, fmt.Errorf("delete expense %d: %w", expenseID, err)
	}
	return affectedOne(res, "delete expense")
}

func affectedOne(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return n > 0, nil
}

// Summarize aggregates the user's expenses overall and per category.
func (r *ExpenseRepository) Summarize(ctx context.Context, userID int64) (models.Summary, error) {
	var (
		s    models.Summary
		last models.Date
	)
	err := r.db.QueryRowContext(ctx, summaryTotalsSQL, userID).Scan(&s.Count, &s.Total, &last)
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarize expenses for user %d: %w", userID, err)
	}
	s.Total = s.Total.Round(2)
	if !last.IsZero() {
		s.LastExpenseDate = &last
	}

	rows, err := r.db.QueryContext(ctx, summaryByCategorySQL, userID)
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarize categories for user %d: %w", userID, err)
	}
	defer rows.Close()

	s.ByCategory = make([]models.CategoryTotal, 0, 8)
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.CategoryName, &ct.Count, &ct.Total); err != nil {
			return models.Summary{}, fmt.Errorf("scan category total: %w", err)
		}
		ct.Total = ct.Total.Round(2)
		s.ByCategory = append(s.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return models.Summary{}, fmt.Errorf("iterate category totals: %w", err)
	}
	return s, nil
}
