package expense

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/application/adapter"
)

// DeleteExpenseInput represents the input for expense deletion.
type DeleteExpenseInput struct {
	UserID    string
	ExpenseID uuid.UUID
}

// DeleteExpenseUseCase handles expense deletion logic.
type DeleteExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	notifier    adapter.ChangeNotifier
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(expenseRepo adapter.ExpenseRepository, notifier adapter.ChangeNotifier) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		expenseRepo: expenseRepo,
		notifier:    notifier,
	}
}

// Execute deletes an expense owned by the user.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) error {
	if _, err := findOwnedExpense(ctx, uc.expenseRepo, input.UserID, input.ExpenseID); err != nil {
		return err
	}

	if err := uc.expenseRepo.Delete(ctx, input.UserID, input.ExpenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	publishChange(ctx, uc.notifier, input.UserID)
	slog.Info("Expense deleted", "user_id", input.UserID, "expense_id", input.ExpenseID)
	return nil
}

// ClearAllExpensesInput represents the input for deleting every expense of a user.
type ClearAllExpensesInput struct {
	UserID string
}

// ClearAllExpensesOutput reports how many expenses were removed.
type ClearAllExpensesOutput struct {
	Deleted int64
}

// ClearAllExpensesUseCase removes a user's whole expense history.
type ClearAllExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
	notifier    adapter.ChangeNotifier
}

// NewClearAllExpensesUseCase creates a new ClearAllExpensesUseCase instance.
func NewClearAllExpensesUseCase(expenseRepo adapter.ExpenseRepository, notifier adapter.ChangeNotifier) *ClearAllExpensesUseCase {
	return &ClearAllExpensesUseCase{
		expenseRepo: expenseRepo,
		notifier:    notifier,
	}
}

// Execute deletes all expenses of the user.
func (uc *ClearAllExpensesUseCase) Execute(ctx context.Context, input ClearAllExpensesInput) (*ClearAllExpensesOutput, error) {
	deleted, err := uc.expenseRepo.DeleteAllByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear expenses: %w", err)
	}

	if deleted > 0 {
		publishChange(ctx, uc.notifier, input.UserID)
	}
	slog.Info("Expenses cleared", "user_id", input.UserID, "deleted", deleted)
	return &ClearAllExpensesOutput{Deleted: deleted}, nil
}
