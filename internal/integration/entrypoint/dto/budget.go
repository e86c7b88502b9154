package dto

import "github.com/spendwise/backend/internal/application/usecase/budget"

// BudgetStatusResponse wraps the current month's budget status.
type BudgetStatusResponse struct {
	Data *budget.GetBudgetStatusOutput `json:"data"`
}
