package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/csd4487/vedema/internal/season"
)

// FieldExpenseDetail is one field's own expense breakdown.
type FieldExpenseDetail struct {
	Breakdown ExpenseBreakdown `json:"breakdown"`
	Total     decimal.Decimal  `json:"total"`
}

// FieldProfitDetail is one field's own sales breakdown.
type FieldProfitDetail struct {
	Breakdown ProfitBreakdown `json:"breakdown"`
	Total     decimal.Decimal `json:"total"`
	SacksSold decimal.Decimal `json:"sacksSold"`
	OilSold   decimal.Decimal `json:"oilSold"`
}

// Result is the season summary. Every key is always present; sections that
// were not requested are null.
type Result struct {
	Season   string   `json:"season"`
	ViewType ViewType `json:"viewType"`

	ExpenseSummary ExpenseBreakdown `json:"expenseSummary"`
	ProfitSummary  ProfitBreakdown  `json:"profitSummary"`

	FieldWithMostExpenses *string          `json:"fieldWithMostExpenses"`
	MaxExpenses           *decimal.Decimal `json:"maxExpenses"`
	ExpenseBreakdown      ExpenseBreakdown `json:"expenseBreakdown"`

	FieldWithMostProfits *string          `json:"fieldWithMostProfits"`
	MaxProfits           *decimal.Decimal `json:"maxProfits"`
	ProfitBreakdown      ProfitBreakdown  `json:"profitBreakdown"`
	SacksSold            *decimal.Decimal `json:"sacksSold"`
	OilSold              *decimal.Decimal `json:"oilSold"`

	FieldExpenseDetails map[string]FieldExpenseDetail `json:"fieldExpenseDetails"`
	FieldProfitDetails  map[string]FieldProfitDetail  `json:"fieldProfitDetails"`

	TotalExpenses *decimal.Decimal `json:"totalExpenses"`
	TotalProfits  *decimal.Decimal `json:"totalProfits"`
	NetProfit     *decimal.Decimal `json:"netProfit"`

	// SkippedRecords counts records left out because of malformed dates.
	SkippedRecords int `json:"-"`
}

func assemble(id season.ID, view ViewType, t *tally) *Result {
	res := &Result{
		Season:         id.String(),
		ViewType:       view,
		SkippedRecords: t.skipped,
	}

	if view.ShowsExpenses() {
		res.ExpenseSummary = t.expenses
		res.TotalExpenses = ptr(t.expenses.Total())

		leader, top, breakdown := NoFieldsSentinel, decimal.Zero, newExpenseBreakdown()
		if t.expenseLeader != nil {
			leader, top, breakdown = t.expenseLeader.location, t.expenseLeader.expenseTotal, t.expenseLeader.expenses
		}
		res.FieldWithMostExpenses = ptr(leader)
		res.MaxExpenses = ptr(top)
		res.ExpenseBreakdown = breakdown

		res.FieldExpenseDetails = make(map[string]FieldExpenseDetail, len(t.fields))
		for _, ft := range t.fields {
			res.FieldExpenseDetails[ft.location] = FieldExpenseDetail{
				Breakdown: ft.expenses,
				Total:     ft.expenseTotal,
			}
		}
	}

	if view.ShowsProfits() {
		res.ProfitSummary = t.profits
		res.TotalProfits = ptr(t.profits.Total())

		leader, top, breakdown := NoFieldsSentinel, decimal.Zero, newFieldProfitBreakdown()
		sacks, oil := decimal.Zero, decimal.Zero
		if t.profitLeader != nil {
			leader, top, breakdown = t.profitLeader.location, t.profitLeader.profitTotal, t.profitLeader.profits
			sacks, oil = t.profitLeader.sacksSold, t.profitLeader.oilSold
		}
		res.FieldWithMostProfits = ptr(leader)
		res.MaxProfits = ptr(top)
		res.ProfitBreakdown = breakdown
		res.SacksSold = ptr(sacks)
		res.OilSold = ptr(oil)

		res.FieldProfitDetails = make(map[string]FieldProfitDetail, len(t.fields))
		for _, ft := range t.fields {
			res.FieldProfitDetails[ft.location] = FieldProfitDetail{
				Breakdown: ft.profits,
				Total:     ft.profitTotal,
				SacksSold: ft.sacksSold,
				OilSold:   ft.oilSold,
			}
		}
	}

	if view == ViewBoth && res.TotalExpenses != nil && res.TotalProfits != nil {
		res.NetProfit = ptr(res.TotalProfits.Sub(*res.TotalExpenses))
	}

	return res
}

func ptr[T any](v T) *T {
	return &v
}
