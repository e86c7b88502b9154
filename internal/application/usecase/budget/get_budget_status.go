package budget

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/application/usecase/profile"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/domain/valueobject"
)

// GetBudgetStatusInput represents the input for getting budget status.
type GetBudgetStatusInput struct {
	UserID string
}

// BudgetLine compares spending against one budget.
type BudgetLine struct {
	CategoryID         entity.CategoryID `json:"category_id,omitempty"`
	Name               string            `json:"name"`
	Color              string            `json:"color,omitempty"`
	Budget             float64           `json:"budget"`
	Spent              float64           `json:"spent"`
	Remaining          float64           `json:"remaining"`
	PercentUsed        string            `json:"percent_used"`
	OverBudget         bool              `json:"over_budget"`
	Alert              bool              `json:"alert"`
	BudgetFormatted    string            `json:"budget_formatted"`
	SpentFormatted     string            `json:"spent_formatted"`
	RemainingFormatted string            `json:"remaining_formatted"`
}

// GetBudgetStatusOutput represents the budget status for the current month.
type GetBudgetStatusOutput struct {
	Period         string       `json:"period"`
	AlertThreshold int          `json:"alert_threshold"`
	Overall        BudgetLine   `json:"overall"`
	Categories     []BudgetLine `json:"categories"`
}

// GetBudgetStatusUseCase reports month-to-date spending against the profile budgets.
type GetBudgetStatusUseCase struct {
	expenseRepo adapter.ExpenseRepository
	getProfile  *profile.GetProfileUseCase
	clock       adapter.Clock
}

// NewGetBudgetStatusUseCase creates a new GetBudgetStatusUseCase instance.
func NewGetBudgetStatusUseCase(
	expenseRepo adapter.ExpenseRepository,
	getProfile *profile.GetProfileUseCase,
	clock adapter.Clock,
) *GetBudgetStatusUseCase {
	return &GetBudgetStatusUseCase{
		expenseRepo: expenseRepo,
		getProfile:  getProfile,
		clock:       clock,
	}
}

// Execute computes the budget status for the clock's current month.
func (uc *GetBudgetStatusUseCase) Execute(ctx context.Context, input GetBudgetStatusInput) (*GetBudgetStatusOutput, error) {
	p, err := uc.getProfile.Execute(ctx, profile.GetProfileInput{UserID: input.UserID})
	if err != nil {
		return nil, domainerror.NewProfileError(domainerror.ErrCodeBudgetInternalError, "failed to load profile", err)
	}

	spending, err := loadMonthSpending(ctx, uc.expenseRepo, input.UserID, uc.clock.Now())
	if err != nil {
		return nil, domainerror.NewProfileError(domainerror.ErrCodeBudgetInternalError, "failed to load spending", err)
	}

	alertAt := decimal.NewFromInt(int64(p.Profile.BudgetAlert))
	out := &GetBudgetStatusOutput{
		Period:         spending.Period,
		AlertThreshold: p.Profile.BudgetAlert,
		Overall: newBudgetLine(
			"", "Overall", "",
			decimal.NewFromFloat(p.Profile.MonthlyBudget), spending.Total, alertAt,
		),
		Categories: make([]BudgetLine, 0, len(entity.Categories())),
	}

	for _, c := range entity.Categories() {
		out.Categories = append(out.Categories, newBudgetLine(
			c.ID, c.Name, c.Color,
			decimal.NewFromFloat(p.Profile.CategoryBudget(c.ID)), spending.ByCategory[c.ID], alertAt,
		))
	}

	return out, nil
}

func newBudgetLine(id entity.CategoryID, name, color string, budget, spent, alertAt decimal.Decimal) BudgetLine {
	remaining := budget.Sub(spent)
	pct := percentUsed(spent, budget)

	line := BudgetLine{
		CategoryID:         id,
		Name:               name,
		Color:              color,
		Budget:             budget.InexactFloat64(),
		Spent:              spent.InexactFloat64(),
		Remaining:          remaining.InexactFloat64(),
		PercentUsed:        pct.StringFixed(1),
		OverBudget:         spent.GreaterThan(budget),
		Alert:              budget.IsPositive() && pct.GreaterThanOrEqual(alertAt),
		BudgetFormatted:    valueobject.NGN.FormatAmount(budget.InexactFloat64()),
		SpentFormatted:     valueobject.NGN.FormatAmount(spent.InexactFloat64()),
		RemainingFormatted: valueobject.NGN.FormatAmount(remaining.InexactFloat64()),
	}
	return line
}
