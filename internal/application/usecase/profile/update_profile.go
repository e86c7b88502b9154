package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/domain/valueobject"
)

// MaxDisplayNameLength is the maximum allowed length for display names.
const MaxDisplayNameLength = 100

// PreferencesInput carries the preference switches to change. Nil fields are left as they are.
type PreferencesInput struct {
	DarkMode       *bool
	Notifications  *bool
	AutoCategories *bool
}

// UpdateProfileInput represents a partial profile update. Nil fields are left as they are.
type UpdateProfileInput struct {
	UserID          string
	Email           string
	DisplayName     *string
	MonthlyBudget   *float64
	BudgetAlert     *int
	CategoryBudgets map[string]float64
	Preferences     *PreferencesInput
}

// UpdateProfileOutput represents the output of a profile update.
type UpdateProfileOutput struct {
	Profile *entity.Profile
}

// UpdateProfileUseCase merges a partial update into the stored profile.
type UpdateProfileUseCase struct {
	profileRepo adapter.ProfileRepository
	getProfile  *GetProfileUseCase
}

// NewUpdateProfileUseCase creates a new UpdateProfileUseCase instance.
func NewUpdateProfileUseCase(profileRepo adapter.ProfileRepository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{
		profileRepo: profileRepo,
		getProfile:  NewGetProfileUseCase(profileRepo),
	}
}

// Execute validates and applies the update. The currency always stays NGN.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	current, err := uc.getProfile.Execute(ctx, GetProfileInput{UserID: input.UserID, Email: input.Email})
	if err != nil {
		return nil, err
	}
	profile := current.Profile

	if input.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.MonthlyBudget != nil {
		profile.MonthlyBudget = *input.MonthlyBudget
	}
	if input.BudgetAlert != nil {
		profile.BudgetAlert = *input.BudgetAlert
	}
	if len(input.CategoryBudgets) > 0 {
		if profile.CategoryBudgets == nil {
			profile.CategoryBudgets = make(map[entity.CategoryID]float64)
		}
		for id, amount := range input.CategoryBudgets {
			profile.CategoryBudgets[entity.CategoryID(id)] = amount
		}
	}
	if p := input.Preferences; p != nil {
		if p.DarkMode != nil {
			profile.Preferences.DarkMode = *p.DarkMode
		}
		if p.Notifications != nil {
			profile.Preferences.Notifications = *p.Notifications
		}
		if p.AutoCategories != nil {
			profile.Preferences.AutoCategories = *p.AutoCategories
		}
	}

	profile.Currency = valueobject.NGN.Code
	profile.UpdatedAt = time.Now().UTC()

	if err := uc.profileRepo.Save(ctx, profile); err != nil {
		return nil, domainerror.NewProfileError(
			domainerror.ErrCodeProfileInternalError,
			"failed to save profile",
			err,
		)
	}

	return &UpdateProfileOutput{Profile: profile}, nil
}

func validateUpdate(input UpdateProfileInput) error {
	if input.DisplayName != nil && len(*input.DisplayName) > MaxDisplayNameLength {
		return domainerror.NewProfileError(
			domainerror.ErrCodeInvalidProfileRequest,
			fmt.Sprintf("display name must not exceed %d characters", MaxDisplayNameLength),
			nil,
		)
	}
	if input.MonthlyBudget != nil && *input.MonthlyBudget < 0 {
		return domainerror.NewProfileError(
			domainerror.ErrCodeInvalidBudgetAmount,
			"monthly budget must not be negative",
			domainerror.ErrInvalidBudgetAmount,
		)
	}
	if input.BudgetAlert != nil && (*input.BudgetAlert < 1 || *input.BudgetAlert > 100) {
		return domainerror.NewProfileError(
			domainerror.ErrCodeInvalidBudgetAlert,
			domainerror.ErrInvalidBudgetAlert.Error(),
			domainerror.ErrInvalidBudgetAlert,
		)
	}
	for id, amount := range input.CategoryBudgets {
		if !entity.CategoryID(id).IsValid() {
			return domainerror.NewProfileError(
				domainerror.ErrCodeUnknownBudgetCategory,
				fmt.Sprintf("unknown budget category %q", id),
				domainerror.ErrUnknownBudgetCategory,
			)
		}
		if amount < 0 {
			return domainerror.NewProfileError(
				domainerror.ErrCodeInvalidBudgetAmount,
				fmt.Sprintf("budget for %s must not be negative", id),
				domainerror.ErrInvalidBudgetAmount,
			)
		}
	}
	return nil
}
