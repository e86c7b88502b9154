// Package budget contains monthly budget tracking use cases.
package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
)

// monthSpending is what a user spent in one calendar month.
type monthSpending struct {
	Period     string // YYYY-MM
	Total      decimal.Decimal
	ByCategory map[entity.CategoryID]decimal.Decimal
}

// monthBounds returns the first and last calendar day of now's month as YYYY-MM-DD.
func monthBounds(now time.Time) (from, to string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(entity.DateLayout), last.Format(entity.DateLayout)
}

func loadMonthSpending(ctx context.Context, repo adapter.ExpenseRepository, userID string, now time.Time) (*monthSpending, error) {
	from, to := monthBounds(now)
	expenses, err := repo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load month expenses: %w", err)
	}

	s := &monthSpending{
		Period:     now.Format("2006-01"),
		Total:      decimal.Zero,
		ByCategory: make(map[entity.CategoryID]decimal.Decimal),
	}
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		s.Total = s.Total.Add(amount)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(amount)
	}
	return s, nil
}

// percentUsed returns spent as a percentage of budget. A zero budget reports 0.
func percentUsed(spent, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return spent.Mul(decimal.NewFromInt(100)).Div(budget)
}
