package dto

import (
	"time"

	"github.com/spendwise/backend/internal/domain/entity"
)

// PreferencesRequest represents partial preference changes.
type PreferencesRequest struct {
	DarkMode       *bool `json:"dark_mode,omitempty"`
	Notifications  *bool `json:"notifications,omitempty"`
	AutoCategories *bool `json:"auto_categories,omitempty"`
}

// UpdateProfileRequest represents the request body for a partial profile update.
type UpdateProfileRequest struct {
	DisplayName     *string             `json:"display_name,omitempty"`
	MonthlyBudget   *float64            `json:"monthly_budget,omitempty"`
	BudgetAlert     *int                `json:"budget_alert,omitempty"`
	CategoryBudgets map[string]float64  `json:"category_budgets,omitempty"`
	Preferences     *PreferencesRequest `json:"preferences,omitempty"`
}

// PreferencesResponse represents user preferences in API responses.
type PreferencesResponse struct {
	DarkMode       bool `json:"dark_mode"`
	Notifications  bool `json:"notifications"`
	AutoCategories bool `json:"auto_categories"`
}

// ProfileResponse represents a user profile in API responses.
type ProfileResponse struct {
	UserID          string              `json:"user_id"`
	DisplayName     string              `json:"display_name"`
	Email           string              `json:"email"`
	Currency        string              `json:"currency"`
	MonthlyBudget   float64             `json:"monthly_budget"`
	BudgetAlert     int                 `json:"budget_alert"`
	CategoryBudgets map[string]float64  `json:"category_budgets"`
	Preferences     PreferencesResponse `json:"preferences"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToProfileResponse converts a domain Profile entity to a ProfileResponse DTO.
func ToProfileResponse(p *entity.Profile) ProfileResponse {
	budgets := make(map[string]float64, len(p.CategoryBudgets))
	for id, amount := range p.CategoryBudgets {
		budgets[string(id)] = amount
	}

	return ProfileResponse{
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		Email:           p.Email,
		Currency:        p.Currency,
		MonthlyBudget:   p.MonthlyBudget,
		BudgetAlert:     p.BudgetAlert,
		CategoryBudgets: budgets,
		Preferences: PreferencesResponse{
			DarkMode:       p.Preferences.DarkMode,
			Notifications:  p.Preferences.Notifications,
			AutoCategories: p.Preferences.AutoCategories,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
