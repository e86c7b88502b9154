package dto

import (
	"time"

	"github.com/spendwise/backend/internal/application/usecase/analytics"
	"github.com/spendwise/backend/internal/domain/valueobject"
)

// TopExpenseResponse represents one of the largest expenses of a window.
type TopExpenseResponse struct {
	ExpenseResponse
	Rank int `json:"rank"`
}

// AnalyticsData is the analytics payload shared by the JSON endpoint and the stream.
type AnalyticsData struct {
	Timeframe         string                    `json:"timeframe"`
	GeneratedAt       time.Time                 `json:"generated_at"`
	Metrics           analytics.Metrics         `json:"metrics"`
	TotalFormatted    string                    `json:"total_formatted"`
	CategoryBreakdown []analytics.CategorySlice `json:"category_breakdown"`
	MonthlyTrend      []analytics.MonthlyPoint  `json:"monthly_trend"`
	TopExpenses       []TopExpenseResponse      `json:"top_expenses"`
	Insights          []analytics.Insight       `json:"insights"`
	Comparison        analytics.Comparison      `json:"comparison"`
}

// AnalyticsResponse wraps AnalyticsData for the JSON endpoint.
type AnalyticsResponse struct {
	Data AnalyticsData `json:"data"`
}

// DataRangeResponse wraps the recorded date range of a user.
type DataRangeResponse struct {
	Data *analytics.GetDataRangeOutput `json:"data"`
}

// ToAnalyticsData converts an aggregation result to the AnalyticsData DTO.
// Empty collections serialize as [] rather than null.
func ToAnalyticsData(r *analytics.Result) AnalyticsData {
	top := make([]TopExpenseResponse, len(r.TopExpenses))
	for i, ranked := range r.TopExpenses {
		top[i] = TopExpenseResponse{
			ExpenseResponse: ToExpenseResponse(ranked.Expense),
			Rank:            i + 1,
		}
	}

	breakdown := r.CategoryBreakdown
	if breakdown == nil {
		breakdown = []analytics.CategorySlice{}
	}
	trend := r.MonthlyTrend
	if trend == nil {
		trend = []analytics.MonthlyPoint{}
	}
	insights := r.Insights
	if insights == nil {
		insights = []analytics.Insight{}
	}

	return AnalyticsData{
		Timeframe:         string(r.Timeframe),
		GeneratedAt:       r.GeneratedAt,
		Metrics:           r.Metrics,
		TotalFormatted:    valueobject.NGN.FormatAmount(r.TotalExpenses),
		CategoryBreakdown: breakdown,
		MonthlyTrend:      trend,
		TopExpenses:       top,
		Insights:          insights,
		Comparison:        r.Comparison,
	}
}
