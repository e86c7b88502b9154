package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense does not exist or belongs to another user.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidExpenseAmount is returned when the amount is not strictly positive.
	ErrInvalidExpenseAmount = errors.New("amount must be greater than zero")

	// ErrMissingExpenseDescription is returned when the description is blank.
	ErrMissingExpenseDescription = errors.New("description is required")

	// ErrInvalidExpenseCategory is returned when the category is not in the category table.
	ErrInvalidExpenseCategory = errors.New("invalid category")

	// ErrInvalidExpenseDate is returned when the date is not a YYYY-MM-DD calendar date.
	ErrInvalidExpenseDate = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrDescriptionTooLong is returned when the description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidExpenseAmount      ExpenseErrorCode = "EXP-010001"
	ErrCodeMissingExpenseDescription ExpenseErrorCode = "EXP-010002"
	ErrCodeInvalidExpenseCategory    ExpenseErrorCode = "EXP-010003"
	ErrCodeInvalidExpenseDate        ExpenseErrorCode = "EXP-010004"
	ErrCodeDescriptionTooLong        ExpenseErrorCode = "EXP-010005"
	ErrCodeInvalidExpenseRequest     ExpenseErrorCode = "EXP-010006"

	// Lookup errors (02XXXX)
	ErrCodeExpenseNotFound ExpenseErrorCode = "EXP-020001"

	// Internal errors (99XXXX)
	ErrCodeExpenseInternalError ExpenseErrorCode = "EXP-990001"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{Code: code, Message: message, Err: err}
}
