// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spendwise/backend/internal/application/adapter"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// TokenIssuer is the issuer claim of tokens accepted by the JWT verifier.
const TokenIssuer = "spendwise"

const defaultTokenDuration = time.Hour

// CustomClaims represents the claims carried by SpendWise JWTs. The user id is the subject.
type CustomClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// jwtVerifier implements the adapter.TokenVerifier interface for HS256 tokens.
type jwtVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret string) adapter.TokenVerifier {
	return &jwtVerifier{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Verify parses and validates token and returns the identity it carries.
func (v *jwtVerifier) Verify(_ context.Context, token string) (*adapter.Identity, error) {
	claims, err := parseJWT(token, v.secret, v.now)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerror.TokenExpired()
		}
		return nil, domainerror.TokenInvalid(err)
	}

	if claims.Subject == "" {
		return nil, domainerror.TokenWithoutSubject()
	}

	return &adapter.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

// parseJWT parses and validates a JWT token.
func parseJWT(tokenString string, secret []byte, now func() time.Time) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// JWTIssuer signs tokens the JWT verifier accepts. It backs local development
// and the integration suite; production tokens come from the identity provider.
type JWTIssuer struct {
	secret   []byte
	duration time.Duration
}

// NewJWTIssuer creates an issuer signing with secret. A non-positive duration uses one hour.
func NewJWTIssuer(secret string, duration time.Duration) *JWTIssuer {
	if duration <= 0 {
		duration = defaultTokenDuration
	}
	return &JWTIssuer{
		secret:   []byte(secret),
		duration: duration,
	}
}

// Issue returns a signed token for identity, valid from issuedAt.
func (i *JWTIssuer) Issue(identity adapter.Identity, issuedAt time.Time) (string, error) {
	claims := CustomClaims{
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.duration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    TokenIssuer,
			Subject:   identity.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
