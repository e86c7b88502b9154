package model

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spendwise/backend/internal/domain/entity"
)

// ProfileModel represents the profiles table in the database.
type ProfileModel struct {
	UserID          string    `gorm:"type:varchar(128);primaryKey"`
	DisplayName     string    `gorm:"type:varchar(100)"`
	Email           string    `gorm:"type:varchar(255)"`
	Currency        string    `gorm:"type:varchar(3);not null;default:'NGN'"`
	MonthlyBudget   float64   `gorm:"type:double precision;not null"`
	BudgetAlert     int       `gorm:"not null;default:80"`
	CategoryBudgets string    `gorm:"type:text;not null;default:'{}'"` // JSON object keyed by category id
	DarkMode        bool      `gorm:"not null;default:false"`
	Notifications   bool      `gorm:"not null;default:true"`
	AutoCategories  bool      `gorm:"not null;default:true"`
	LastAlertPeriod string    `gorm:"type:varchar(7)"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the ProfileModel.
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToEntity converts a ProfileModel to a domain Profile entity.
func (m *ProfileModel) ToEntity() *entity.Profile {
	budgets := make(map[entity.CategoryID]float64)
	if m.CategoryBudgets != "" {
		if err := json.Unmarshal([]byte(m.CategoryBudgets), &budgets); err != nil {
			slog.Warn("Failed to unmarshal category budgets", "error", err, "user_id", m.UserID)
		}
	}

	return &entity.Profile{
		UserID:          m.UserID,
		DisplayName:     m.DisplayName,
		Email:           m.Email,
		Currency:        m.Currency,
		MonthlyBudget:   m.MonthlyBudget,
		BudgetAlert:     m.BudgetAlert,
		CategoryBudgets: budgets,
		Preferences: entity.Preferences{
			DarkMode:       m.DarkMode,
			Notifications:  m.Notifications,
			AutoCategories: m.AutoCategories,
		},
		LastAlertPeriod: m.LastAlertPeriod,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ProfileModelFromEntity creates a ProfileModel from a domain Profile entity.
func ProfileModelFromEntity(p *entity.Profile) *ProfileModel {
	budgets, err := json.Marshal(p.CategoryBudgets)
	if err != nil || p.CategoryBudgets == nil {
		budgets = []byte("{}")
	}

	return &ProfileModel{
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		Email:           p.Email,
		Currency:        p.Currency,
		MonthlyBudget:   p.MonthlyBudget,
		BudgetAlert:     p.BudgetAlert,
		CategoryBudgets: string(budgets),
		DarkMode:        p.Preferences.DarkMode,
		Notifications:   p.Preferences.Notifications,
		AutoCategories:  p.Preferences.AutoCategories,
		LastAlertPeriod: p.LastAlertPeriod,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
