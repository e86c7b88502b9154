package analytics

import (
	"context"
	"log/slog"

	"github.com/spendwise/backend/internal/application/adapter"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// GetAnalyticsInput represents the input for computing analytics on demand.
type GetAnalyticsInput struct {
	UserID    string
	Timeframe string
}

// GetAnalyticsOutput represents the output of computing analytics.
type GetAnalyticsOutput struct {
	Result *Result
}

// GetAnalyticsUseCase loads a user's expenses and aggregates them once.
type GetAnalyticsUseCase struct {
	expenseRepo adapter.ExpenseRepository
	clock       adapter.Clock
}

// NewGetAnalyticsUseCase creates a new GetAnalyticsUseCase instance.
func NewGetAnalyticsUseCase(expenseRepo adapter.ExpenseRepository, clock adapter.Clock) *GetAnalyticsUseCase {
	return &GetAnalyticsUseCase{
		expenseRepo: expenseRepo,
		clock:       clock,
	}
}

// Execute computes analytics for the requested timeframe.
func (uc *GetAnalyticsUseCase) Execute(ctx context.Context, input GetAnalyticsInput) (*GetAnalyticsOutput, error) {
	tf, err := ParseTimeframe(input.Timeframe)
	if err != nil {
		return nil, err
	}

	records, err := uc.expenseRepo.ListAll(ctx, input.UserID)
	if err != nil {
		slog.Error("Failed to load expenses for analytics", "user_id", input.UserID, "error", err)
		return nil, domainerror.NewAnalyticsError(
			domainerror.ErrCodeAnalyticsInternalError,
			"failed to load expenses",
			err,
		)
	}

	return &GetAnalyticsOutput{
		Result: Aggregate(records, tf, uc.clock.Now()),
	}, nil
}
