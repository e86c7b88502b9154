package analytics

import (
	"fmt"

	"github.com/spendwise/backend/internal/domain/entity"
)

// InsightType classifies an insight for display.
type InsightType string

const (
	InsightCategory InsightType = "category"
	InsightWarning  InsightType = "warning"
	InsightPositive InsightType = "positive"
)

// Insight is a short rule-derived observation about spending.
type Insight struct {
	Type    InsightType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// Thresholds relative to the mean daily total.
const (
	highSpendingFactor = 2.0
	consistencyFactor  = 0.5
)

// GenerateInsights applies the insight rules in a fixed order: top category,
// high-spending days, then consistency. Rules whose precondition fails are skipped.
func GenerateInsights(filtered []*entity.Expense, breakdown []CategorySlice) []Insight {
	insights := make([]Insight, 0, 3)
	if len(filtered) == 0 {
		return insights
	}

	if len(breakdown) > 0 {
		top := breakdown[0]
		insights = append(insights, Insight{
			Type:    InsightCategory,
			Title:   "Top Spending Category",
			Message: fmt.Sprintf("You spend the most on %s (%s%% of total)", top.Name, top.Percentage),
		})
	}

	totals := dailyTotals(filtered)
	var sum float64
	for _, v := range totals {
		sum += v
	}
	mean := sum / float64(len(totals))

	highDays := 0
	for _, v := range totals {
		if v > mean*highSpendingFactor {
			highDays++
		}
	}
	if highDays > 0 {
		insights = append(insights, Insight{
			Type:    InsightWarning,
			Title:   "High Spending Days",
			Message: fmt.Sprintf("You had %d days with unusually high spending", highDays),
		})
	}

	if len(totals) > 1 {
		lo, hi := totals[0], totals[0]
		for _, v := range totals[1:] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		if hi-lo < mean*consistencyFactor {
			insights = append(insights, Insight{
				Type:    InsightPositive,
				Title:   "Consistent Spending",
				Message: "Your daily spending is fairly consistent",
			})
		}
	}

	return insights
}

// dailyTotals sums spending per exact date. Only days with at least one expense appear.
func dailyTotals(filtered []*entity.Expense) []float64 {
	index := make(map[string]int)
	totals := make([]float64, 0)
	for _, e := range filtered {
		i, ok := index[e.Date]
		if !ok {
			i = len(totals)
			index[e.Date] = i
			totals = append(totals, 0)
		}
		totals[i] += e.Amount
	}
	return totals
}
