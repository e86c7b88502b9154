package entity

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used by expense dates.
const DateLayout = "2006-01-02"

// Expense represents a single spending record owned by one user.
type Expense struct {
	ID          uuid.UUID
	UserID      string
	Amount      float64
	Description string
	Category    CategoryID
	Date        string // YYYY-MM-DD, no time component
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewExpense creates a new Expense entity with a fresh id and timestamps.
func NewExpense(userID string, amount float64, description string, category CategoryID, date string) *Expense {
	now := time.Now().UTC()

	return &Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DateIn returns the expense date as midnight in loc.
func (e *Expense) DateIn(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, loc)
}

// MonthKey returns the YYYY-MM part of the expense date.
func (e *Expense) MonthKey() string {
	if len(e.Date) < 7 {
		return e.Date
	}
	return e.Date[:7]
}

// IsOwnedBy reports whether the expense belongs to userID.
func (e *Expense) IsOwnedBy(userID string) bool {
	return e.UserID == userID
}

// ExpenseFilter narrows a listing of a user's expenses.
type ExpenseFilter struct {
	Search     string // case-insensitive description substring
	Category   *CategoryID
	DatePrefix string // e.g. "2024-01" or "2024-01-05"
	Page       int
	Limit      int
}

// ExpenseListResult represents one page of a user's expenses.
type ExpenseListResult struct {
	Expenses   []*Expense
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ExpenseDateRange spans a user's recorded expenses. Dates are empty when Count is 0.
type ExpenseDateRange struct {
	OldestDate string
	NewestDate string
	Count      int64
}
