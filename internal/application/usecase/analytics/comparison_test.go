package analytics

import (
	"testing"

	"github.com/spendwise/backend/internal/domain/entity"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		tf      entity.Timeframe
		records []*entity.Expense
		current float64
		want    Comparison
	}{
		{
			name: "month increase",
			tf:   entity.TimeframeMonth,
			records: []*entity.Expense{
				newExpense(100, entity.CategoryFood, "2024-02-10"),
				newExpense(150, entity.CategoryFood, "2024-03-05"),
				newExpense(999, entity.CategoryFood, "2024-01-31"),
			},
			current: 150,
			want:    Comparison{CurrentTotal: 150, PreviousTotal: 100, Change: "50.0", IsIncrease: true, HasPrevious: true},
		},
		{
			name: "month decrease",
			tf:   entity.TimeframeMonth,
			records: []*entity.Expense{
				newExpense(120, entity.CategoryFood, "2024-02-01"),
				newExpense(80, entity.CategoryFood, "2024-02-29"),
			},
			current: 150,
			want:    Comparison{CurrentTotal: 150, PreviousTotal: 200, Change: "25.0", IsIncrease: false, HasPrevious: true},
		},
		{
			name:    "no previous spending",
			tf:      entity.TimeframeYear,
			current: 40,
			want:    Comparison{CurrentTotal: 40, Change: "0.0", HasPrevious: true},
		},
		{
			name: "week uses the seven days before the window",
			tf:   entity.TimeframeWeek,
			records: []*entity.Expense{
				newExpense(1, entity.CategoryFood, "2024-03-01"),
				newExpense(10, entity.CategoryFood, "2024-03-02"),
				newExpense(20, entity.CategoryFood, "2024-03-08"),
				newExpense(40, entity.CategoryFood, "2024-03-10"),
			},
			current: 40,
			want:    Comparison{CurrentTotal: 40, PreviousTotal: 30, Change: "33.3", IsIncrease: true, HasPrevious: true},
		},
		{
			name: "all has no previous window",
			tf:   entity.TimeframeAll,
			records: []*entity.Expense{
				newExpense(10, entity.CategoryFood, "2020-03-01"),
			},
			current: 10,
			want:    Comparison{CurrentTotal: 10, Change: "0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.records, tt.tf, testNow, tt.current)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
