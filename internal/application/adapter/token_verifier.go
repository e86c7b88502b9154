package adapter

import "context"

// Identity is the verified caller behind a bearer token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// TokenVerifier validates identity-provider tokens.
type TokenVerifier interface {
	// Verify returns the identity carried by a valid token, or a domain AuthError.
	Verify(ctx context.Context, token string) (*Identity, error)
}
