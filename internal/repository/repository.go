package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"expense_tracker/internal/models"
)

// ErrDuplicateEmail is returned when a user with the same email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

type Authorization interface {
	Create(ctx context.Context, username, email, passwordHash string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name string) (int64, error)
	EnsureSeeded(ctx context.Context, names []string) (int, error)
}

type ExpenseRepo interface {
	// Create inserts e; when newCategory is non-empty the category is found or created
	// in the same transaction and its id replaces e.CategoryID.
	Create(ctx context.Context, e models.Expense, newCategory string) (expenseID, categoryID int64, err error)
	ListForUser(ctx context.Context, userID int64) ([]models.ExpenseView, error)
	Get(ctx context.Context, expenseID int64) (*models.Expense, error)
	// Update and Delete only touch rows owned by the given user and report whether one matched.
	Update(ctx context.Context, e models.Expense) (bool, error)
	Delete(ctx context.Context, userID, expenseID int64) (bool, error)
	Summarize(ctx context.Context, userID int64) (models.Summary, error)
}

type SessionRepo interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Renew(ctx context.Context, token string, expiresAt time.Time) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, userID int64, from, to time.Time, typ string) ([]models.ActivityEvent, error)
}

type Repository struct {
	Auth       Authorization
	Categories CategoryRepo
	Expenses   ExpenseRepo
	Sessions   SessionRepo
	Events     EventRepo
}

// NewRepository wires the SQL-backed repositories. Callers may swap Sessions
// for another backend (see NewSessionRedis).
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:       NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Expenses:   NewExpenseRepository(db),
		Sessions:   NewSessionSQL(db),
		Events:     NewEventRepository(db),
	}
}
