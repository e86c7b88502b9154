// Package error defines domain-specific errors for the SpendWise application.
package error

import (
	"errors"
	"fmt"
)

// Sign-up and sign-in live with the identity provider. The API only sees
// bearer tokens, so every identity failure is a rejected token.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrMissingSubject = errors.New("token has no subject")
)

// AuthErrorCode identifies why a request was refused before reaching a handler.
// Format: AUTH-XXYYYY, XX = 02 for request limits, 03 for tokens.
type AuthErrorCode string

const (
	ErrCodeRateLimited AuthErrorCode = "AUTH-020003"

	ErrCodeInvalidToken AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken AuthErrorCode = "AUTH-030003"
)

// AuthError is a refused credential.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError builds an AuthError.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{Code: code, Message: message, Err: err}
}

// TokenExpired rejects a token whose expiry has passed.
func TokenExpired() *AuthError {
	return NewAuthError(ErrCodeExpiredToken, "token has expired", ErrExpiredToken)
}

// TokenInvalid rejects a token the verifier could not accept; cause is kept
// for logs and never sent to clients.
func TokenInvalid(cause error) *AuthError {
	if cause == nil {
		return NewAuthError(ErrCodeInvalidToken, "invalid token", ErrInvalidToken)
	}
	return NewAuthError(ErrCodeInvalidToken, "invalid token", fmt.Errorf("%w: %v", ErrInvalidToken, cause))
}

// TokenWithoutSubject rejects a well-formed token that names no user.
func TokenWithoutSubject() *AuthError {
	return NewAuthError(ErrCodeInvalidToken, "invalid token", ErrMissingSubject)
}

// AuthCode extracts the code of an AuthError in err's chain.
func AuthCode(err error) (AuthErrorCode, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code, true
	}
	return "", false
}
