package analytics

import (
	"testing"

	"github.com/spendwise/backend/internal/domain/entity"
)

func insightTypes(insights []Insight) []InsightType {
	types := make([]InsightType, 0, len(insights))
	for _, i := range insights {
		types = append(types, i.Type)
	}
	return types
}

func TestGenerateInsights(t *testing.T) {
	tests := []struct {
		name    string
		records []*entity.Expense
		want    []InsightType
	}{
		{
			name: "empty set has no insights",
			want: []InsightType{},
		},
		{
			name: "day total under twice the mean is not flagged",
			records: []*entity.Expense{
				newExpense(10, entity.CategoryFood, "2024-01-05"),
				newExpense(10, entity.CategoryFood, "2024-01-05"),
				newExpense(100, entity.CategoryFood, "2024-01-05"),
				newExpense(10, entity.CategoryFood, "2024-01-06"),
			},
			want: []InsightType{InsightCategory},
		},
		{
			name: "one high spending day",
			records: []*entity.Expense{
				newExpense(10, entity.CategoryFood, "2024-01-01"),
				newExpense(10, entity.CategoryFood, "2024-01-02"),
				newExpense(10, entity.CategoryFood, "2024-01-03"),
				newExpense(100, entity.CategoryShopping, "2024-01-04"),
			},
			want: []InsightType{InsightCategory, InsightWarning},
		},
		{
			name: "consistent spending",
			records: []*entity.Expense{
				newExpense(100, entity.CategoryFood, "2024-01-01"),
				newExpense(110, entity.CategoryFood, "2024-01-02"),
				newExpense(90, entity.CategoryFood, "2024-01-03"),
			},
			want: []InsightType{InsightCategory, InsightPositive},
		},
		{
			name: "single day is never consistent",
			records: []*entity.Expense{
				newExpense(100, entity.CategoryFood, "2024-01-01"),
			},
			want: []InsightType{InsightCategory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var total float64
			for _, e := range tt.records {
				total += e.Amount
			}
			got := insightTypes(GenerateInsights(tt.records, BuildCategoryBreakdown(tt.records, total)))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestGenerateInsights_Messages(t *testing.T) {
	records := []*entity.Expense{
		newExpense(10, entity.CategoryFood, "2024-01-01"),
		newExpense(10, entity.CategoryFood, "2024-01-02"),
		newExpense(10, entity.CategoryFood, "2024-01-03"),
		newExpense(100, entity.CategoryShopping, "2024-01-04"),
	}
	insights := GenerateInsights(records, BuildCategoryBreakdown(records, 130))

	if insights[0].Title != "Top Spending Category" {
		t.Errorf("unexpected title %q", insights[0].Title)
	}
	if want := "You spend the most on Shopping (76.9% of total)"; insights[0].Message != want {
		t.Errorf("expected %q, got %q", want, insights[0].Message)
	}
	if want := "You had 1 days with unusually high spending"; insights[1].Message != want {
		t.Errorf("expected %q, got %q", want, insights[1].Message)
	}
}
