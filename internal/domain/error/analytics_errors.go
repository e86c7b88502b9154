package error

import "errors"

// ErrInvalidTimeframe is returned when the timeframe selector is not supported.
var ErrInvalidTimeframe = errors.New("timeframe must be: week, month, 3months, year, or all")

// AnalyticsErrorCode defines error codes for analytics errors.
type AnalyticsErrorCode string

const (
	ErrCodeInvalidTimeframe       AnalyticsErrorCode = "ANL-010001"
	ErrCodeAnalyticsInternalError AnalyticsErrorCode = "ANL-990001"
)

// AnalyticsError represents an analytics error with code and message.
type AnalyticsError struct {
	Code    AnalyticsErrorCode
	Message string
	Err     error
}

func (e *AnalyticsError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AnalyticsError) Unwrap() error {
	return e.Err
}

// NewAnalyticsError creates a new AnalyticsError with the given code and message.
func NewAnalyticsError(code AnalyticsErrorCode, message string, err error) *AnalyticsError {
	return &AnalyticsError{Code: code, Message: message, Err: err}
}
