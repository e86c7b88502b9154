package analytics

import (
	"sort"

	"github.com/spendwise/backend/internal/domain/entity"
)

// TopExpensesLimit is the number of expenses ranked by RankTopExpenses.
const TopExpensesLimit = 5

// RankedExpense is an expense annotated with its category display name.
type RankedExpense struct {
	Expense      *entity.Expense
	CategoryName string
}

// RankTopExpenses returns the largest expenses, descending by amount.
// Equal amounts keep their input order.
func RankTopExpenses(filtered []*entity.Expense) []RankedExpense {
	sorted := make([]*entity.Expense, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})

	n := min(len(sorted), TopExpensesLimit)
	top := make([]RankedExpense, 0, n)
	for _, e := range sorted[:n] {
		top = append(top, RankedExpense{
			Expense:      e,
			CategoryName: entity.ResolveCategory(e.Category).Name,
		})
	}
	return top
}
