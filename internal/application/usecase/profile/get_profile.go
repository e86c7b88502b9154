// Package profile contains profile and budget preference use cases.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/domain/valueobject"
)

// GetProfileInput represents the input for loading a profile. Email and Name
// come from the verified identity and fill in a profile that lacks them.
type GetProfileInput struct {
	UserID string
	Email  string
	Name   string
}

// GetProfileOutput represents the output of loading a profile.
type GetProfileOutput struct {
	Profile *entity.Profile
	Created bool
}

// GetProfileUseCase returns a user's profile, creating the default one on first access.
type GetProfileUseCase struct {
	profileRepo adapter.ProfileRepository
}

// NewGetProfileUseCase creates a new GetProfileUseCase instance.
func NewGetProfileUseCase(profileRepo adapter.ProfileRepository) *GetProfileUseCase {
	return &GetProfileUseCase{profileRepo: profileRepo}
}

// Execute loads or initializes the profile.
func (uc *GetProfileUseCase) Execute(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil && !errors.Is(err, domainerror.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if profile == nil {
		profile = entity.NewDefaultProfile(input.UserID, valueobject.NGN.Code)
		profile.Email = input.Email
		profile.DisplayName = input.Name
		if err := uc.profileRepo.Save(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to create default profile: %w", err)
		}
		slog.Info("Default profile created", "user_id", input.UserID)
		return &GetProfileOutput{Profile: profile, Created: true}, nil
	}

	if profile.Email == "" && input.Email != "" {
		profile.Email = input.Email
		if err := uc.profileRepo.Save(ctx, profile); err != nil {
			slog.Warn("Failed to backfill profile email", "user_id", input.UserID, "error", err)
		}
	}

	return &GetProfileOutput{Profile: profile}, nil
}
