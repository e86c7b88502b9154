package error

import "errors"

// Profile and budget domain errors.
var (
	// ErrProfileNotFound is returned when no profile is stored for a user.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidBudgetAmount is returned when a budget is negative.
	ErrInvalidBudgetAmount = errors.New("budget must not be negative")

	// ErrInvalidBudgetAlert is returned when the alert threshold is outside 1..100.
	ErrInvalidBudgetAlert = errors.New("budget alert must be between 1 and 100")

	// ErrUnknownBudgetCategory is returned when a category budget names an unknown category.
	ErrUnknownBudgetCategory = errors.New("unknown budget category")
)

// ProfileErrorCode defines error codes for profile and budget errors.
// Format: PRF-XXYYYY / BDG-XXYYYY where XX is category and YYYY is specific error.
type ProfileErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidBudgetAmount   ProfileErrorCode = "PRF-010001"
	ErrCodeInvalidBudgetAlert    ProfileErrorCode = "PRF-010002"
	ErrCodeUnknownBudgetCategory ProfileErrorCode = "PRF-010003"
	ErrCodeInvalidProfileRequest ProfileErrorCode = "PRF-010004"

	// Internal errors (99XXXX)
	ErrCodeProfileInternalError ProfileErrorCode = "PRF-990001"
	ErrCodeBudgetInternalError  ProfileErrorCode = "BDG-990001"
)

// ProfileError represents a profile error with code and message.
type ProfileError struct {
	Code    ProfileErrorCode
	Message string
	Err     error
}

func (e *ProfileError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// NewProfileError creates a new ProfileError with the given code and message.
func NewProfileError(code ProfileErrorCode, message string, err error) *ProfileError {
	return &ProfileError{Code: code, Message: message, Err: err}
}
