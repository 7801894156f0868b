package service

import (
	"context"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	User(ctx context.Context, id int64) (*models.User, error)
	GenerateToken(ctx context.Context, email, password string) (string, error)
	ParseToken(accessToken string) (int64, error)
}

// Sessions backs the cookie login of the HTML pages.
type Sessions interface {
	Start(ctx context.Context, userID int64) (models.Session, error)
	Resolve(ctx context.Context, token string) (models.Session, bool, error)
	End(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
	TTL() time.Duration
}

// Expenses exposes category listing and the owner-scoped expense CRUD.
type Expenses interface {
	Categories(ctx context.Context) ([]models.Category, error)
	SeedCategories(ctx context.Context, names []string) (int, error)
	Add(ctx context.Context, userID int64, in models.ExpenseInput) (models.Expense, error)
	List(ctx context.Context, userID int64) ([]models.ExpenseView, error)
	Get(ctx context.Context, userID, expenseID int64) (*models.Expense, error)
	Update(ctx context.Context, userID, expenseID int64, in models.ExpenseInput) (models.Expense, error)
	Delete(ctx context.Context, userID, expenseID int64) error
}

// Summaries exposes read-only spending aggregates.
type Summaries interface {
	Summary(ctx context.Context, userID int64) (models.Summary, error)
}

// ActivityLog exposes append-only per-user logs with filtering access.
type ActivityLog interface {
	Record(ctx context.Context, userID int64, typ, description string, meta any) error
	List(ctx context.Context, userID int64, f LogFilter) ([]models.ActivityEvent, error)
}

// Config carries the service-level settings taken from the application config.
type Config struct {
	SigningKey string
	TokenTTL   time.Duration
	SessionTTL time.Duration
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Sessions
	Expenses
	Summaries
	ActivityLog
}

func NewService(repos *repository.Repository, cfg Config) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey, cfg.TokenTTL),
		Sessions:      NewSessionService(repos.Sessions, cfg.SessionTTL),
		Expenses:      NewExpenseService(repos.Categories, repos.Expenses),
		Summaries:     NewSummaryService(repos.Expenses),
		ActivityLog:   NewActivityLogService(repos.Events),
	}
}
