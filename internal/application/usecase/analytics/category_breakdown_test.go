package analytics

import (
	"testing"

	"github.com/spendwise/backend/internal/domain/entity"
)

func TestBuildCategoryBreakdown(t *testing.T) {
	t.Run("two categories", func(t *testing.T) {
		records := []*entity.Expense{
			newExpense(50, entity.CategoryTransport, "2024-01-10"),
			newExpense(100, entity.CategoryFood, "2024-01-05"),
		}
		got := BuildCategoryBreakdown(records, 150)

		want := []CategorySlice{
			{CategoryID: entity.CategoryFood, Name: "Food & Dining", Value: 100, Color: "#f59e0b", Percentage: "66.7"},
			{CategoryID: entity.CategoryTransport, Name: "Transportation", Value: 50, Color: "#3b82f6", Percentage: "33.3"},
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d slices, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("slice %d: expected %+v, got %+v", i, want[i], got[i])
			}
		}
	})

	t.Run("single category is the whole", func(t *testing.T) {
		records := []*entity.Expense{
			newExpense(20, entity.CategoryBills, "2024-01-10"),
			newExpense(30, entity.CategoryBills, "2024-01-11"),
		}
		got := BuildCategoryBreakdown(records, 50)
		if len(got) != 1 || got[0].Percentage != "100.0" || got[0].Value != 50 {
			t.Errorf("unexpected breakdown: %+v", got)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		records := []*entity.Expense{newExpense(10, "crypto", "2024-01-10")}
		got := BuildCategoryBreakdown(records, 10)
		if len(got) != 1 {
			t.Fatalf("expected 1 slice, got %d", len(got))
		}
		if got[0].Name != entity.UnknownCategoryName || got[0].Color != entity.UnknownCategoryColor {
			t.Errorf("expected Unknown/%s, got %s/%s", entity.UnknownCategoryColor, got[0].Name, got[0].Color)
		}
		if got[0].CategoryID != "crypto" {
			t.Errorf("expected raw id to be kept, got %s", got[0].CategoryID)
		}
	})

	t.Run("ties keep first appearance order", func(t *testing.T) {
		records := []*entity.Expense{
			newExpense(25, entity.CategoryShopping, "2024-01-01"),
			newExpense(25, entity.CategoryOther, "2024-01-02"),
			newExpense(40, entity.CategoryFood, "2024-01-03"),
			newExpense(25, entity.CategoryShopping, "2024-01-04"),
			newExpense(25, entity.CategoryOther, "2024-01-05"),
		}
		got := BuildCategoryBreakdown(records, 140)
		order := []entity.CategoryID{entity.CategoryShopping, entity.CategoryOther, entity.CategoryFood}
		for i, id := range order {
			if got[i].CategoryID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, got[i].CategoryID)
			}
		}
	})

	t.Run("zero total is skipped", func(t *testing.T) {
		got := BuildCategoryBreakdown(nil, 0)
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil breakdown, got %#v", got)
		}
	})
}
