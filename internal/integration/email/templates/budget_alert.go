package templates

// BudgetAlertTemplate is the name of the monthly budget alert template.
const BudgetAlertTemplate = "budget_alert"

// BudgetAlert fills budget_alert.html and budget_alert.txt. Amounts arrive
// already formatted in the user's currency.
type BudgetAlert struct {
	UserName     string
	Period       string // YYYY-MM
	PeriodLabel  string // "March 2024"
	Spent        string
	Budget       string
	PercentUsed  string
	AlertPercent int
	DashboardURL string
}

// Fields flattens the alert for storage with a queued job.
func (a BudgetAlert) Fields() map[string]any {
	return map[string]any{
		"user_name":     a.UserName,
		"period":        a.Period,
		"period_label":  a.PeriodLabel,
		"spent":         a.Spent,
		"budget":        a.Budget,
		"percent_used":  a.PercentUsed,
		"alert_percent": a.AlertPercent,
		"dashboard_url": a.DashboardURL,
	}
}

// BudgetAlertFromFields restores an alert saved with Fields. Numbers read
// back from JSON are float64.
func BudgetAlertFromFields(fields map[string]any) BudgetAlert {
	str := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}
	var percent int
	switch v := fields["alert_percent"].(type) {
	case int:
		percent = v
	case float64:
		percent = int(v)
	}
	return BudgetAlert{
		UserName:     str("user_name"),
		Period:       str("period"),
		PeriodLabel:  str("period_label"),
		Spent:        str("spent"),
		Budget:       str("budget"),
		PercentUsed:  str("percent_used"),
		AlertPercent: percent,
		DashboardURL: str("dashboard_url"),
	}
}
