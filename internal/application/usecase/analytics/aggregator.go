package analytics

import (
	"time"

	"github.com/spendwise/backend/internal/domain/entity"
)

// Result is the full analytics view of one user's expenses for a timeframe.
// It is derived data: recompute it whenever the records, timeframe or clock change.
type Result struct {
	Timeframe   entity.Timeframe `json:"timeframe"`
	GeneratedAt time.Time        `json:"generated_at"`
	Metrics
	CategoryBreakdown []CategorySlice `json:"category_breakdown"`
	MonthlyTrend      []MonthlyPoint  `json:"monthly_trend"`
	TopExpenses       []RankedExpense `json:"-"`
	Insights          []Insight       `json:"insights"`
	Comparison        Comparison      `json:"comparison"`
}

// Aggregate filters records to tf and computes every analytics view over the
// result. It has no side effects and the same inputs always produce the same
// Result. Records may arrive in any order.
func Aggregate(records []*entity.Expense, tf entity.Timeframe, now time.Time) *Result {
	filtered := FilterByTimeframe(records, tf, now)
	metrics := CalculateMetrics(filtered, tf, now)
	breakdown := BuildCategoryBreakdown(filtered, metrics.TotalExpenses)

	return &Result{
		Timeframe:         tf,
		GeneratedAt:       now,
		Metrics:           metrics,
		CategoryBreakdown: breakdown,
		MonthlyTrend:      BuildMonthlyTrend(filtered),
		TopExpenses:       RankTopExpenses(filtered),
		Insights:          GenerateInsights(filtered, breakdown),
		Comparison:        Compare(records, tf, now, metrics.TotalExpenses),
	}
}
