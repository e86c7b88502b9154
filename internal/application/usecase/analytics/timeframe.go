// Package analytics derives spending analytics from a user's expense set.
package analytics

import (
	"strings"
	"time"

	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// ParseTimeframe validates a timeframe selector. An empty value selects the default.
func ParseTimeframe(raw string) (entity.Timeframe, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.DefaultTimeframe, nil
	}
	tf := entity.Timeframe(strings.ToLower(raw))
	if !tf.IsValid() {
		return "", domainerror.NewAnalyticsError(
			domainerror.ErrCodeInvalidTimeframe,
			domainerror.ErrInvalidTimeframe.Error(),
			domainerror.ErrInvalidTimeframe,
		)
	}
	return tf, nil
}

// WindowStart returns the earliest instant included in tf, anchored at now.
// The second result is false for TimeframeAll, which has no lower bound.
func WindowStart(tf entity.Timeframe, now time.Time) (time.Time, bool) {
	loc := now.Location()

	switch tf {
	case entity.TimeframeWeek:
		return now.AddDate(0, 0, -7), true
	case entity.TimeframeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), true
	case entity.TimeframeThreeMonth:
		return time.Date(now.Year(), now.Month()-3, 1, 0, 0, 0, 0, loc), true
	case entity.TimeframeYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// FilterByTimeframe returns the records whose date falls inside tf.
// Dates are read as midnight in now's location. Input order is preserved.
func FilterByTimeframe(records []*entity.Expense, tf entity.Timeframe, now time.Time) []*entity.Expense {
	start, bounded := WindowStart(tf, now)
	if !bounded {
		out := make([]*entity.Expense, len(records))
		copy(out, records)
		return out
	}

	out := make([]*entity.Expense, 0, len(records))
	for _, e := range records {
		d, err := e.DateIn(now.Location())
		if err != nil {
			continue
		}
		if !d.Before(start) {
			out = append(out, e)
		}
	}
	return out
}

// filterBetween keeps records dated within [from, to).
func filterBetween(records []*entity.Expense, from, to time.Time) []*entity.Expense {
	out := make([]*entity.Expense, 0)
	for _, e := range records {
		d, err := e.DateIn(from.Location())
		if err != nil {
			continue
		}
		if !d.Before(from) && d.Before(to) {
			out = append(out, e)
		}
	}
	return out
}
