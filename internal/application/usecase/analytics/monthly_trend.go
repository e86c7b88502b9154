package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/spendwise/backend/internal/domain/entity"
)

// MonthlyPoint is the spending of one calendar month.
type MonthlyPoint struct {
	Month        string  `json:"month"` // YYYY-MM
	Label        string  `json:"label"` // e.g. "Jan 2024"
	Amount       float64 `json:"amount"`
	ExpenseCount int     `json:"expense_count"`
}

// BuildMonthlyTrend groups spending by month, oldest first.
func BuildMonthlyTrend(filtered []*entity.Expense) []MonthlyPoint {
	byMonth := make(map[string]*MonthlyPoint)
	for _, e := range filtered {
		key := e.MonthKey()
		p, ok := byMonth[key]
		if !ok {
			p = &MonthlyPoint{Month: key, Label: monthLabel(key)}
			byMonth[key] = p
		}
		p.Amount += e.Amount
		p.ExpenseCount++
	}

	points := make([]MonthlyPoint, 0, len(byMonth))
	for _, p := range byMonth {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Month < points[j].Month
	})
	return points
}

// monthLabel turns "2024-01" into "Jan 2024". Keys that do not parse are returned as is.
func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%s %d", t.Month().String()[:3], t.Year())
}
