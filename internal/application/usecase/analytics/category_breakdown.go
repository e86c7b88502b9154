package analytics

import (
	"sort"

	"github.com/spendwise/backend/internal/domain/entity"
	"github.com/spendwise/backend/internal/domain/valueobject"
)

// CategorySlice is one category's share of spending.
type CategorySlice struct {
	CategoryID entity.CategoryID `json:"category_id"`
	Name       string            `json:"name"`
	Value      float64           `json:"value"`
	Color      string            `json:"color"`
	Percentage string            `json:"percentage"` // one decimal place, e.g. "66.7"
}

// BuildCategoryBreakdown groups spending by category, largest first.
// Equal totals keep the order in which their categories first appear in
// filtered. A zero total yields an empty breakdown.
func BuildCategoryBreakdown(filtered []*entity.Expense, total float64) []CategorySlice {
	if total == 0 {
		return []CategorySlice{}
	}

	sums := make(map[entity.CategoryID]float64)
	order := make([]entity.CategoryID, 0)
	for _, e := range filtered {
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount
	}

	slices := make([]CategorySlice, 0, len(order))
	for _, id := range order {
		cat := entity.ResolveCategory(id)
		slices = append(slices, CategorySlice{
			CategoryID: id,
			Name:       cat.Name,
			Value:      sums[id],
			Color:      cat.Color,
			Percentage: valueobject.Percent(sums[id], total),
		})
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Value > slices[j].Value
	})
	return slices
}
