// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/application/adapter"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey ContextKey = "user_id"
	// UserEmailKey is the context key for the authenticated user's email.
	UserEmailKey ContextKey = "user_email"
	// UserNameKey is the context key for the authenticated user's display name.
	UserNameKey ContextKey = "user_name"
)

// AuthMiddleware provides bearer token authentication middleware.
type AuthMiddleware struct {
	verifier adapter.TokenVerifier
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(verifier adapter.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate returns a Gin middleware handler that enforces bearer token authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required", domainerror.ErrCodeMissingToken)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Invalid authorization header format", domainerror.ErrCodeInvalidToken)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			abortUnauthorized(c, "Token is required", domainerror.ErrCodeMissingToken)
			return
		}

		identity, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			code, ok := domainerror.AuthCode(err)
			if !ok {
				slog.Error("Token verification failed", "error", err)
				code = domainerror.ErrCodeInvalidToken
			}
			abortUnauthorized(c, "Invalid or expired token", code)
			return
		}

		c.Set(string(UserIDKey), identity.UserID)
		c.Set(string(UserEmailKey), identity.Email)
		c.Set(string(UserNameKey), identity.Name)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string, code domainerror.AuthErrorCode) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}

// GetUserIDFromContext extracts the user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString(string(UserIDKey))
	return userID, userID != ""
}

// GetIdentityFromContext extracts the verified identity from the Gin context.
func GetIdentityFromContext(c *gin.Context) (adapter.Identity, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return adapter.Identity{}, false
	}
	return adapter.Identity{
		UserID: userID,
		Email:  c.GetString(string(UserEmailKey)),
		Name:   c.GetString(string(UserNameKey)),
	}, true
}
