package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"expense_tracker/internal/models"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

var _ CategoryRepo = (*CategoryRepository)(nil)

const (
	selectCategoriesSQL     = `SELECT category_id, category_name FROM categories ORDER BY category_name ASC, category_id ASC`
	selectCategoryByNameSQL = `SELECT category_id FROM categories WHERE LOWER(category_name) = LOWER(?) ORDER BY category_id ASC LIMIT 1`
	insertCategorySQL       = `INSERT INTO categories (category_name) VALUES (?)`
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, selectCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	out := make([]models.Category, 0, 16)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// Create inserts a category unconditionally.
func (r *CategoryRepository) Create(ctx context.Context, name string) (int64, error) {
	return insertCategory(ctx, r.db, name)
}

// EnsureSeeded inserts every name that does not exist yet (case-insensitive)
// and returns how many rows were added.
func (r *CategoryRepository) EnsureSeeded(ctx context.Context, names []string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed categories: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, created, err := findOrCreateCategory(ctx, tx, name)
		if err != nil {
			return 0, err
		}
		if created {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed categories: %w", err)
	}
	return inserted, nil
}

func insertCategory(ctx context.Context, q queryer, name string) (int64, error) {
	res, err := q.ExecContext(ctx, insertCategorySQL, name)
	if err != nil {
		return 0, fmt.Errorf("insert category %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for category %q: %w", name, err)
	}
	return id, nil
}

// findOrCreateCategory reuses a category whose name matches ignoring case.
func findOrCreateCategory(ctx context.Context, q queryer, name string) (id int64, created bool, err error) {
	err = q.QueryRowContext(ctx, selectCategoryByNameSQL, name).Scan(&id)
	switch {
	case err == nil:
		return id, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("select category %q: %w", name, err)
	}
	id, err = insertCategory(ctx, q, name)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
