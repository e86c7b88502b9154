package adapters

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/spendwise/backend/internal/application/adapter"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// firebaseVerifier implements the adapter.TokenVerifier interface with
// Firebase ID tokens. The Firebase UID is the SpendWise user id.
type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier initializes the Firebase Admin SDK. Empty credentialsJSON
// falls back to application default credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsJSON string) (adapter.TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebase auth client: %w", err)
	}

	slog.Info("Firebase token verifier initialized", "project_id", projectID)

	return &firebaseVerifier{client: client}, nil
}

// Verify validates a Firebase ID token.
func (v *firebaseVerifier) Verify(ctx context.Context, token string) (*adapter.Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, domainerror.TokenExpired()
		}
		return nil, domainerror.TokenInvalid(err)
	}

	if decoded.UID == "" {
		return nil, domainerror.TokenWithoutSubject()
	}

	return identityFromClaims(decoded.UID, decoded.Claims), nil
}

func identityFromClaims(uid string, claims map[string]any) *adapter.Identity {
	identity := &adapter.Identity{UserID: uid}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	return identity
}
