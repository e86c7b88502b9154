package expense

import (
	"context"
	"math"
	"strings"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// Pagination limits for expense listings.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	// MaxPage keeps (page-1)*limit inside a 32-bit offset.
	MaxPage = math.MaxInt32 / MaxPageLimit
)

// ListExpensesInput represents the input for listing expenses.
type ListExpensesInput struct {
	UserID     string
	Search     string
	Category   string
	DatePrefix string
	Page       int
	Limit      int
}

// ListExpensesOutput represents one page of expenses.
type ListExpensesOutput struct {
	Expenses   []*entity.Expense
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListExpensesUseCase handles expense listing with filters.
type ListExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(expenseRepo adapter.ExpenseRepository) *ListExpensesUseCase {
	return &ListExpensesUseCase{expenseRepo: expenseRepo}
}

// Execute returns the newest expenses first, filtered and paginated.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	filter := entity.ExpenseFilter{
		Search: strings.TrimSpace(input.Search),
		Page:   page,
		Limit:  limit,
	}

	if input.Category != "" {
		category := entity.CategoryID(input.Category)
		if err := validateCategory(category); err != nil {
			return nil, err
		}
		filter.Category = &category
	}

	if prefix := strings.TrimSpace(input.DatePrefix); prefix != "" {
		if !datePrefixPattern.MatchString(prefix) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeInvalidExpenseDate,
				"date filter must look like YYYY, YYYY-MM or YYYY-MM-DD",
				domainerror.ErrInvalidExpenseDate,
			)
		}
		filter.DatePrefix = prefix
	}

	result, err := uc.expenseRepo.List(ctx, input.UserID, filter)
	if err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseInternalError,
			"failed to list expenses",
			err,
		)
	}

	return &ListExpensesOutput{
		Expenses:   result.Expenses,
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}, nil
}
