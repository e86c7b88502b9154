package dto

import (
	"time"

	"github.com/spendwise/backend/internal/application/usecase/expense"
	"github.com/spendwise/backend/internal/domain/entity"
	"github.com/spendwise/backend/internal/domain/valueobject"
)

// CreateExpenseRequest represents the request body for expense creation.
// Amount is validated by the use case so a zero amount gets its own error code.
type CreateExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Date        string  `json:"date" binding:"required"`
}

// UpdateExpenseRequest represents the request body for a partial expense update.
type UpdateExpenseRequest struct {
	Amount      *float64 `json:"amount,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Date        *string  `json:"date,omitempty"`
}

// ExpenseResponse represents a single expense in API responses.
type ExpenseResponse struct {
	ID              string    `json:"id"`
	Amount          float64   `json:"amount"`
	AmountFormatted string    `json:"amount_formatted"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	CategoryName    string    `json:"category_name"`
	CategoryColor   string    `json:"category_color"`
	Date            string    `json:"date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PaginationResponse represents pagination information in API responses.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ExpenseListResponse represents a page of expenses in API responses.
type ExpenseListResponse struct {
	Data       []ExpenseResponse  `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// ClearExpensesResponse reports how many expenses were removed.
type ClearExpensesResponse struct {
	Deleted int64 `json:"deleted"`
}

// ToExpenseResponse converts a domain Expense entity to an ExpenseResponse DTO.
func ToExpenseResponse(e *entity.Expense) ExpenseResponse {
	category := entity.ResolveCategory(e.Category)
	return ExpenseResponse{
		ID:              e.ID.String(),
		Amount:          e.Amount,
		AmountFormatted: valueobject.NGN.FormatAmount(e.Amount),
		Description:     e.Description,
		Category:        string(e.Category),
		CategoryName:    category.Name,
		CategoryColor:   category.Color,
		Date:            e.Date,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ToExpenseListResponse converts a ListExpensesOutput to an ExpenseListResponse DTO.
func ToExpenseListResponse(output *expense.ListExpensesOutput) ExpenseListResponse {
	data := make([]ExpenseResponse, len(output.Expenses))
	for i, e := range output.Expenses {
		data[i] = ToExpenseResponse(e)
	}
	return ExpenseListResponse{
		Data: data,
		Pagination: PaginationResponse{
			Page:       output.Page,
			Limit:      output.Limit,
			Total:      output.Total,
			TotalPages: output.TotalPages,
		},
	}
}
