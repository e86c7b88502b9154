// Package entity defines the core business entities for the domain layer.
package entity

// CategoryID identifies one of the fixed expense categories.
type CategoryID string

const (
	CategoryFood          CategoryID = "food"
	CategoryTransport     CategoryID = "transport"
	CategoryShopping      CategoryID = "shopping"
	CategoryEntertainment CategoryID = "entertainment"
	CategoryBills         CategoryID = "bills"
	CategoryOther         CategoryID = "other"
)

// UnknownCategoryName and UnknownCategoryColor are used to display a category
// id that is not part of the table.
const (
	UnknownCategoryName  = "Unknown"
	UnknownCategoryColor = "#6b7280"
)

// Category is a display entry of the category table.
type Category struct {
	ID    CategoryID
	Name  string
	Color string
}

var categoryTable = []Category{
	{ID: CategoryFood, Name: "Food & Dining", Color: "#f59e0b"},
	{ID: CategoryTransport, Name: "Transportation", Color: "#3b82f6"},
	{ID: CategoryShopping, Name: "Shopping", Color: "#10b981"},
	{ID: CategoryEntertainment, Name: "Entertainment", Color: "#ef4444"},
	{ID: CategoryBills, Name: "Bills & Utilities", Color: "#8b5cf6"},
	{ID: CategoryOther, Name: "Other", Color: "#6b7280"},
}

// Categories returns the category table in display order.
// The returned slice is a copy and may be modified by the caller.
func Categories() []Category {
	out := make([]Category, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// LookupCategory returns the table entry for id.
func LookupCategory(id CategoryID) (Category, bool) {
	for _, c := range categoryTable {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ResolveCategory returns the table entry for id, or an "Unknown" entry
// carrying the original id when the table has no match.
func ResolveCategory(id CategoryID) Category {
	if c, ok := LookupCategory(id); ok {
		return c
	}
	return Category{ID: id, Name: UnknownCategoryName, Color: UnknownCategoryColor}
}

// IsValid reports whether the id is part of the category table.
func (id CategoryID) IsValid() bool {
	_, ok := LookupCategory(id)
	return ok
}
