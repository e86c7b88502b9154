package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/domain/entity"
)

// Comparison relates the current window's spending to the window before it.
type Comparison struct {
	CurrentTotal  float64 `json:"current_total"`
	PreviousTotal float64 `json:"previous_total"`
	Change        string  `json:"change"` // absolute percent change, one decimal place
	IsIncrease    bool    `json:"is_increase"`
	HasPrevious   bool    `json:"has_previous"`
}

// PreviousWindow returns the [from, to) range that precedes tf's current window.
// The second result is false for TimeframeAll.
func PreviousWindow(tf entity.Timeframe, now time.Time) (from, to time.Time, ok bool) {
	start, bounded := WindowStart(tf, now)
	if !bounded {
		return time.Time{}, time.Time{}, false
	}

	switch tf {
	case entity.TimeframeWeek:
		return start.AddDate(0, 0, -7), start, true
	case entity.TimeframeMonth:
		return start.AddDate(0, -1, 0), start, true
	case entity.TimeframeThreeMonth:
		return start.AddDate(0, -3, 0), start, true
	case entity.TimeframeYear:
		return start.AddDate(-1, 0, 0), start, true
	}
	return time.Time{}, time.Time{}, false
}

// Compare computes the period-over-period change for currentTotal. The change
// is 0 when the previous window has no spending.
func Compare(records []*entity.Expense, tf entity.Timeframe, now time.Time, currentTotal float64) Comparison {
	c := Comparison{CurrentTotal: currentTotal, Change: "0.0"}

	from, to, ok := PreviousWindow(tf, now)
	if !ok {
		return c
	}
	c.HasPrevious = true

	for _, e := range filterBetween(records, from, to) {
		c.PreviousTotal += e.Amount
	}
	if c.PreviousTotal <= 0 {
		return c
	}

	prev := decimal.NewFromFloat(c.PreviousTotal)
	change := decimal.NewFromFloat(currentTotal).Sub(prev).Div(prev).Mul(decimal.NewFromInt(100))
	c.IsIncrease = change.IsPositive()
	c.Change = change.Abs().StringFixed(1)
	return c
}
