package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// UpdateExpenseInput represents a partial expense update. Nil fields are left as they are.
type UpdateExpenseInput struct {
	UserID      string
	ExpenseID   uuid.UUID
	Amount      *float64
	Description *string
	Category    *string
	Date        *string
}

// UpdateExpenseOutput represents the output of an expense update.
type UpdateExpenseOutput struct {
	Expense *entity.Expense
}

// UpdateExpenseUseCase handles expense update logic.
type UpdateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	notifier    adapter.ChangeNotifier
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(expenseRepo adapter.ExpenseRepository, notifier adapter.ChangeNotifier) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		expenseRepo: expenseRepo,
		notifier:    notifier,
	}
}

// Execute applies the update to an expense owned by the user.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	expense, err := findOwnedExpense(ctx, uc.expenseRepo, input.UserID, input.ExpenseID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		expense.Amount = *input.Amount
	}
	if input.Description != nil {
		description, err := normalizeDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		expense.Description = description
	}
	if input.Category != nil {
		category := entity.CategoryID(*input.Category)
		if err := validateCategory(category); err != nil {
			return nil, err
		}
		expense.Category = category
	}
	if input.Date != nil {
		date, err := normalizeDate(*input.Date)
		if err != nil {
			return nil, err
		}
		expense.Date = date
	}

	expense.UpdatedAt = time.Now().UTC()
	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseInternalError,
			"failed to update expense",
			err,
		)
	}

	publishChange(ctx, uc.notifier, input.UserID)

	return &UpdateExpenseOutput{Expense: expense}, nil
}

// findOwnedExpense loads an expense and hides other users' records behind not-found.
func findOwnedExpense(ctx context.Context, repo adapter.ExpenseRepository, userID string, id uuid.UUID) (*entity.Expense, error) {
	expense, err := repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseNotFound,
				"expense not found",
				domainerror.ErrExpenseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	if !expense.IsOwnedBy(userID) {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseNotFound,
			"expense not found",
			domainerror.ErrExpenseNotFound,
		)
	}
	return expense, nil
}
