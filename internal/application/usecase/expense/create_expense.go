package expense

import (
	"context"
	"log/slog"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/application/usecase/budget"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// CreateExpenseInput represents the input for expense creation.
type CreateExpenseInput struct {
	UserID      string
	Amount      float64
	Description string
	Category    string
	Date        string // YYYY-MM-DD
}

// CreateExpenseOutput represents the output of expense creation.
type CreateExpenseOutput struct {
	Expense *entity.Expense
}

// CreateExpenseUseCase handles expense creation logic.
type CreateExpenseUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	notifier     adapter.ChangeNotifier
	budgetAlerts *budget.CheckBudgetAlertUseCase
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
// budgetAlerts may be nil to skip alert checks.
func NewCreateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	notifier adapter.ChangeNotifier,
	budgetAlerts *budget.CheckBudgetAlertUseCase,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo:  expenseRepo,
		notifier:     notifier,
		budgetAlerts: budgetAlerts,
	}
}

// Execute validates and stores a new expense.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}
	category := entity.CategoryID(input.Category)
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	date, err := normalizeDate(input.Date)
	if err != nil {
		return nil, err
	}

	expense := entity.NewExpense(input.UserID, input.Amount, description, category, date)
	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseInternalError,
			"failed to create expense",
			err,
		)
	}

	publishChange(ctx, uc.notifier, input.UserID)

	if uc.budgetAlerts != nil {
		if _, err := uc.budgetAlerts.Execute(ctx, budget.CheckBudgetAlertInput{UserID: input.UserID}); err != nil {
			slog.Warn("Budget alert check failed", "user_id", input.UserID, "error", err)
		}
	}

	return &CreateExpenseOutput{Expense: expense}, nil
}
