package entity

import "time"

// Default budget settings applied to a newly created profile.
const (
	DefaultMonthlyBudget = 150000.0
	DefaultBudgetAlert   = 80
)

// Preferences holds per-user display and notification switches.
type Preferences struct {
	DarkMode       bool
	Notifications  bool
	AutoCategories bool
}

// Profile holds a user's budget settings and preferences.
type Profile struct {
	UserID          string
	DisplayName     string
	Email           string
	Currency        string
	MonthlyBudget   float64
	BudgetAlert     int // percent of MonthlyBudget that triggers an alert
	CategoryBudgets map[CategoryID]float64
	Preferences     Preferences
	LastAlertPeriod string // YYYY-MM of the last budget alert sent
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DefaultCategoryBudgets returns the monthly budget per category for new profiles.
func DefaultCategoryBudgets() map[CategoryID]float64 {
	return map[CategoryID]float64{
		CategoryFood:          40000,
		CategoryTransport:     30000,
		CategoryShopping:      25000,
		CategoryEntertainment: 15000,
		CategoryBills:         20000,
		CategoryOther:         10000,
	}
}

// NewDefaultProfile creates a profile with the default budgets and preferences.
func NewDefaultProfile(userID, currency string) *Profile {
	now := time.Now().UTC()

	return &Profile{
		UserID:          userID,
		Currency:        currency,
		MonthlyBudget:   DefaultMonthlyBudget,
		BudgetAlert:     DefaultBudgetAlert,
		CategoryBudgets: DefaultCategoryBudgets(),
		Preferences: Preferences{
			DarkMode:       false,
			Notifications:  true,
			AutoCategories: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CategoryBudget returns the budget for a category, or 0 when none is set.
func (p *Profile) CategoryBudget(id CategoryID) float64 {
	if p.CategoryBudgets == nil {
		return 0
	}
	return p.CategoryBudgets[id]
}

// AlertSentFor reports whether a budget alert was already sent for period (YYYY-MM).
func (p *Profile) AlertSentFor(period string) bool {
	return p.LastAlertPeriod == period
}
