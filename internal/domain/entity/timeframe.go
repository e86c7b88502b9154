package entity

// Timeframe selects the window of expenses that analytics are computed over,
// anchored at the current moment.
type Timeframe string

const (
	TimeframeWeek       Timeframe = "week"
	TimeframeMonth      Timeframe = "month"
	TimeframeThreeMonth Timeframe = "3months"
	TimeframeYear       Timeframe = "year"
	TimeframeAll        Timeframe = "all"
)

// DefaultTimeframe is used when no timeframe is requested.
const DefaultTimeframe = TimeframeMonth

// IsValid checks if the timeframe is one of the supported selectors.
func (t Timeframe) IsValid() bool {
	switch t {
	case TimeframeWeek, TimeframeMonth, TimeframeThreeMonth, TimeframeYear, TimeframeAll:
		return true
	}
	return false
}

// SpanDays returns the fixed number of days a bounded timeframe covers.
// It returns 0 for TimeframeAll, whose span depends on the data.
func (t Timeframe) SpanDays() int {
	switch t {
	case TimeframeWeek:
		return 7
	case TimeframeMonth:
		return 30
	case TimeframeThreeMonth:
		return 90
	case TimeframeYear:
		return 365
	}
	return 0
}
