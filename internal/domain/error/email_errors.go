package error

import (
	"errors"
	"fmt"
)

// Budget alert delivery failures.
var (
	ErrMissingRecipient = errors.New("email recipient is required")
	ErrInvalidTemplate  = errors.New("invalid email template")
)

// EmailErrorCode classifies a delivery failure.
// Format: EML-XXYYYY, XX = 01 queue, 02 provider, 03 template.
type EmailErrorCode string

const (
	ErrCodeEmailQueueFailed EmailErrorCode = "EML-010001"
	ErrCodeEmailClaimFailed EmailErrorCode = "EML-010002"
	ErrCodeMissingRecipient EmailErrorCode = "EML-010003"

	ErrCodePermanentEmailFailure EmailErrorCode = "EML-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EML-020003"

	ErrCodeInvalidTemplate      EmailErrorCode = "EML-030001"
	ErrCodeTemplateRenderFailed EmailErrorCode = "EML-030002"
)

// EmailError wraps a failure to queue, render or deliver a notification.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *EmailError) Unwrap() error { return e.Err }

// NewEmailError builds an EmailError.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{Code: code, Message: message, Err: err}
}

// IsPermanentEmailFailure reports whether retrying err cannot succeed.
// Template problems count as permanent: the same data renders the same way.
func IsPermanentEmailFailure(err error) bool {
	var emailErr *EmailError
	if !errors.As(err, &emailErr) {
		return false
	}
	switch emailErr.Code {
	case ErrCodePermanentEmailFailure, ErrCodeInvalidTemplate, ErrCodeTemplateRenderFailed, ErrCodeMissingRecipient:
		return true
	}
	return false
}
