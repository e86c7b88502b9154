// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/persistence/model"
)

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

// Create persists a new expense.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	expenseModel := model.ExpenseModelFromEntity(expense)
	if err := r.db.WithContext(ctx).Create(expenseModel).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense owned by userID.
func (r *expenseRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*entity.Expense, error) {
	var expenseModel model.ExpenseModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&expenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return expenseModel.ToEntity(), nil
}

// Update saves changes to an existing expense.
func (r *expenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&model.ExpenseModel{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(map[string]any{
			"amount":      expense.Amount,
			"description": expense.Description,
			"category":    string(expense.Category),
			"date":        expense.Date,
			"updated_at":  expense.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrExpenseNotFound
	}
	return nil
}

// Delete removes an expense owned by userID.
func (r *expenseRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ExpenseModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrExpenseNotFound
	}
	return nil
}

// DeleteAllByUser removes every expense of a user.
func (r *expenseRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.ExpenseModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expenses: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// List returns one filtered page of a user's expenses.
func (r *expenseRepository) List(ctx context.Context, userID string, filter entity.ExpenseFilter) (*entity.ExpenseListResult, error) {
	query := r.db.WithContext(ctx).
		Model(&model.ExpenseModel{}).
		Where("user_id = ?", userID)

	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where("LOWER(description) LIKE ? ESCAPE '\\'", pattern)
	}

	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}

	if filter.DatePrefix != "" {
		query = query.Where("date LIKE ? ESCAPE '\\'", escapeLike(filter.DatePrefix)+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	var models []model.ExpenseModel
	if err := query.
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	return &entity.ExpenseListResult{
		Expenses:   toExpenseEntities(models),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ListAll returns the complete expense set of a user.
func (r *expenseRepository) ListAll(ctx context.Context, userID string) ([]*entity.Expense, error) {
	var models []model.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return toExpenseEntities(models), nil
}

// GetDateRange returns the oldest and newest expense dates of a user.
func (r *expenseRepository) GetDateRange(ctx context.Context, userID string) (*entity.ExpenseDateRange, error) {
	var result struct {
		OldestDate *string `gorm:"column:oldest_date"`
		NewestDate *string `gorm:"column:newest_date"`
		Total      int64   `gorm:"column:total"`
	}

	err := r.db.WithContext(ctx).
		Model(&model.ExpenseModel{}).
		Select("MIN(date) as oldest_date, MAX(date) as newest_date, COUNT(*) as total").
		Where("user_id = ?", userID).
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get date range: %w", err)
	}

	dateRange := &entity.ExpenseDateRange{Count: result.Total}
	if result.OldestDate != nil {
		dateRange.OldestDate = *result.OldestDate
	}
	if result.NewestDate != nil {
		dateRange.NewestDate = *result.NewestDate
	}
	return dateRange, nil
}

// ListByDateRange returns the expenses dated within [from, to].
// Dates are stored as YYYY-MM-DD so lexical comparison matches calendar order.
func (r *expenseRepository) ListByDateRange(ctx context.Context, userID, from, to string) ([]*entity.Expense, error) {
	var models []model.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date DESC, created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses by date range: %w", err)
	}
	return toExpenseEntities(models), nil
}

func toExpenseEntities(models []model.ExpenseModel) []*entity.Expense {
	expenses := make([]*entity.Expense, len(models))
	for i := range models {
		expenses[i] = models[i].ToEntity()
	}
	return expenses
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
