package analytics

import (
	"testing"

	"github.com/spendwise/backend/internal/domain/entity"
)

func TestBuildMonthlyTrend(t *testing.T) {
	records := []*entity.Expense{
		newExpense(10, entity.CategoryFood, "2024-02-03"),
		newExpense(20, entity.CategoryFood, "2023-12-31"),
		newExpense(30, entity.CategoryBills, "2024-01-15"),
		newExpense(5, entity.CategoryOther, "2024-02-28"),
	}

	got := BuildMonthlyTrend(records)
	want := []MonthlyPoint{
		{Month: "2023-12", Label: "Dec 2023", Amount: 20, ExpenseCount: 1},
		{Month: "2024-01", Label: "Jan 2024", Amount: 30, ExpenseCount: 1},
		{Month: "2024-02", Label: "Feb 2024", Amount: 15, ExpenseCount: 2},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	if empty := BuildMonthlyTrend(nil); len(empty) != 0 {
		t.Errorf("expected empty trend, got %d points", len(empty))
	}
}
