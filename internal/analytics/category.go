package analytics

import "strings"

// ExpenseCategory enumerates the expense buckets.
type ExpenseCategory string

const (
	CategoryFertilization ExpenseCategory = "fertilization"
	CategorySpraying      ExpenseCategory = "spraying"
	CategoryIrrigation    ExpenseCategory = "irrigation"
	CategoryOther         ExpenseCategory = "other"
)

// ExpenseCategories lists every expense bucket in presentation order.
var ExpenseCategories = []ExpenseCategory{
	CategoryFertilization,
	CategorySpraying,
	CategoryIrrigation,
	CategoryOther,
}

// ProfitKind enumerates the profit buckets. The kind follows from the record
// type, never from a label.
type ProfitKind string

const (
	ProfitOilSales  ProfitKind = "oilsales"
	ProfitSackSales ProfitKind = "sacksales"
	ProfitOther     ProfitKind = "other"
)

// ProfitKinds lists every profit bucket in presentation order.
var ProfitKinds = []ProfitKind{
	ProfitOilSales,
	ProfitSackSales,
	ProfitOther,
}

// ClassifyExpense maps a free-text task label onto a category.
func ClassifyExpense(label string) ExpenseCategory {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case string(CategoryFertilization):
		return CategoryFertilization
	case string(CategorySpraying):
		return CategorySpraying
	case string(CategoryIrrigation):
		return CategoryIrrigation
	default:
		return CategoryOther
	}
}
