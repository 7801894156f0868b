package service

import (
	"context"
	"fmt"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

type SummaryService struct {
	expenses repository.ExpenseRepo
}

func NewSummaryService(expenses repository.ExpenseRepo) *SummaryService {
	return &SummaryService{expenses: expenses}
}

// Summary returns the user's spending snapshot; a user without expenses gets a zero summary.
func (s *SummaryService) Summary(ctx context.Context, userID int64) (models.Summary, error) {
	sum, err := s.expenses.Summarize(ctx, userID)
	if err != nil {
		return models.Summary{}, fmt.Errorf("summary: %w", err)
	}
	if sum.ByCategory == nil {
		sum.ByCategory = []models.CategoryTotal{}
	}
	return sum, nil
}
