// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/domain/entity"
)

// ExpenseRepository defines the interface for expense persistence operations.
// Every query is scoped to one user.
type ExpenseRepository interface {
	// Create persists a new expense.
	Create(ctx context.Context, expense *entity.Expense) error

	// GetByID retrieves an expense owned by userID.
	// Returns domainerror.ErrExpenseNotFound when it does not exist for that user.
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*entity.Expense, error)

	// Update saves changes to an existing expense.
	Update(ctx context.Context, expense *entity.Expense) error

	// Delete removes an expense owned by userID.
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// DeleteAllByUser removes every expense of a user and returns how many were removed.
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)

	// List returns one filtered page ordered by date desc, then created_at desc.
	List(ctx context.Context, userID string, filter entity.ExpenseFilter) (*entity.ExpenseListResult, error)

	// ListAll returns the complete expense set of a user ordered by date desc, then created_at desc.
	ListAll(ctx context.Context, userID string) ([]*entity.Expense, error)

	// GetDateRange returns the oldest and newest expense dates of a user with the record count.
	GetDateRange(ctx context.Context, userID string) (*entity.ExpenseDateRange, error)

	// ListByDateRange returns the expenses dated within [from, to], both YYYY-MM-DD inclusive.
	ListByDateRange(ctx context.Context, userID, from, to string) ([]*entity.Expense, error)
}
