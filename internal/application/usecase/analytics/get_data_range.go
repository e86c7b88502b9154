package analytics

import (
	"context"
	"fmt"

	"github.com/spendwise/backend/internal/application/adapter"
)

// GetDataRangeInput represents the input for getting data range.
type GetDataRangeInput struct {
	UserID string
}

// GetDataRangeOutput represents the output of getting data range.
type GetDataRangeOutput struct {
	OldestDate    string `json:"oldest_date,omitempty"`
	NewestDate    string `json:"newest_date,omitempty"`
	TotalExpenses int64  `json:"total_expenses"`
	HasData       bool   `json:"has_data"`
}

// GetDataRangeUseCase reports which dates a user's expenses cover, so a
// client can tell which timeframes have anything to show.
type GetDataRangeUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetDataRangeUseCase creates a new GetDataRangeUseCase instance.
func NewGetDataRangeUseCase(expenseRepo adapter.ExpenseRepository) *GetDataRangeUseCase {
	return &GetDataRangeUseCase{expenseRepo: expenseRepo}
}

// Execute retrieves the date range of the user's expenses.
func (uc *GetDataRangeUseCase) Execute(ctx context.Context, input GetDataRangeInput) (*GetDataRangeOutput, error) {
	r, err := uc.expenseRepo.GetDateRange(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get date range: %w", err)
	}

	return &GetDataRangeOutput{
		OldestDate:    r.OldestDate,
		NewestDate:    r.NewestDate,
		TotalExpenses: r.Count,
		HasData:       r.Count > 0,
	}, nil
}
