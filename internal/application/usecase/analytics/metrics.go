package analytics

import (
	"math"
	"time"

	"github.com/spendwise/backend/internal/domain/entity"
)

// Metrics holds the scalar summary of a filtered expense set.
type Metrics struct {
	TotalExpenses  float64 `json:"total_expenses"`
	ExpenseCount   int     `json:"expense_count"`
	AverageExpense float64 `json:"average_expense"`
	DailyAverage   float64 `json:"daily_average"`
	TimeSpanDays   int     `json:"time_span_days"`
}

const day = 24 * time.Hour

// CalculateMetrics computes totals and averages. It never divides by zero:
// an empty set has an average of 0 and a span of at least one day.
func CalculateMetrics(filtered []*entity.Expense, tf entity.Timeframe, now time.Time) Metrics {
	var total float64
	for _, e := range filtered {
		total += e.Amount
	}

	m := Metrics{
		TotalExpenses: total,
		ExpenseCount:  len(filtered),
		TimeSpanDays:  timeSpanDays(filtered, tf, now),
	}
	if m.ExpenseCount > 0 {
		m.AverageExpense = total / float64(m.ExpenseCount)
	}
	m.DailyAverage = total / float64(m.TimeSpanDays)
	return m
}

func timeSpanDays(filtered []*entity.Expense, tf entity.Timeframe, now time.Time) int {
	if span := tf.SpanDays(); span > 0 {
		return span
	}

	var oldest time.Time
	found := false
	for _, e := range filtered {
		d, err := e.DateIn(now.Location())
		if err != nil {
			continue
		}
		if !found || d.Before(oldest) {
			oldest = d
			found = true
		}
	}
	if !found {
		return 1
	}

	days := int(math.Ceil(float64(now.Sub(oldest)) / float64(day)))
	return max(days, 1)
}
