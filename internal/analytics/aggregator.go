package analytics

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/csd4487/vedema/internal/domain/models"
	"github.com/csd4487/vedema/internal/season"
)

// NoFieldsSentinel is reported as the leading field when no field was walked.
const NoFieldsSentinel = "no fields"

// ExpenseBreakdown sums expenses per category.
type ExpenseBreakdown map[ExpenseCategory]decimal.Decimal

// ProfitBreakdown sums profits per kind.
type ProfitBreakdown map[ProfitKind]decimal.Decimal

func newExpenseBreakdown() ExpenseBreakdown {
	b := make(ExpenseBreakdown, len(ExpenseCategories))
	for _, c := range ExpenseCategories {
		b[c] = decimal.Zero
	}
	return b
}

func newProfitBreakdown() ProfitBreakdown {
	b := make(ProfitBreakdown, len(ProfitKinds))
	for _, k := range ProfitKinds {
		b[k] = decimal.Zero
	}
	return b
}

// Fields only ever earn from oil and sack sales.
func newFieldProfitBreakdown() ProfitBreakdown {
	return ProfitBreakdown{
		ProfitOilSales:  decimal.Zero,
		ProfitSackSales: decimal.Zero,
	}
}

// Total sums every category.
func (b ExpenseBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range ExpenseCategories {
		total = total.Add(b[c])
	}
	return total
}

// Total sums every kind.
func (b ProfitBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, k := range ProfitKinds {
		total = total.Add(b[k])
	}
	return total
}

type fieldTally struct {
	location     string
	expenses     ExpenseBreakdown
	expenseTotal decimal.Decimal
	profits      ProfitBreakdown
	profitTotal  decimal.Decimal
	sacksSold    decimal.Decimal
	oilSold      decimal.Decimal
}

type tally struct {
	expenses      ExpenseBreakdown
	profits       ProfitBreakdown
	fields        []*fieldTally
	expenseLeader *fieldTally
	profitLeader  *fieldTally
	skipped       int
}

type aggregator struct {
	window season.Window
	logger *zap.Logger
	out    *tally
}

// aggregate walks the selected fields and the user's unattached ledgers once.
func aggregate(snap *Snapshot, window season.Window, fields []*models.Field, logger *zap.Logger) *tally {
	a := &aggregator{
		window: window,
		logger: logger,
		out: &tally{
			expenses: newExpenseBreakdown(),
			profits:  newProfitBreakdown(),
			fields:   make([]*fieldTally, 0, len(fields)),
		},
	}

	for _, field := range fields {
		ft := a.walkField(field)
		a.out.fields = append(a.out.fields, ft)

		if a.out.expenseLeader == nil || ft.expenseTotal.GreaterThan(a.out.expenseLeader.expenseTotal) {
			a.out.expenseLeader = ft
		}
		if a.out.profitLeader == nil || ft.profitTotal.GreaterThan(a.out.profitLeader.profitTotal) {
			a.out.profitLeader = ft
		}
	}

	user := snap.User()
	for _, expense := range user.OtherExpenses {
		if !a.inWindow(expense.Date, "") {
			continue
		}
		cat := ClassifyExpense(expense.Task)
		a.out.expenses[cat] = a.out.expenses[cat].Add(expense.Cost.Decimal())
	}

	for _, profit := range user.OtherProfits {
		if !a.inWindow(profit.Date, "") {
			continue
		}
		a.out.profits[ProfitOther] = a.out.profits[ProfitOther].Add(profit.Amount.Decimal())
	}

	return a.out
}

func (a *aggregator) walkField(field *models.Field) *fieldTally {
	ft := &fieldTally{
		location:     field.Location,
		expenses:     newExpenseBreakdown(),
		expenseTotal: decimal.Zero,
		profits:      newFieldProfitBreakdown(),
		profitTotal:  decimal.Zero,
		sacksSold:    decimal.Zero,
		oilSold:      decimal.Zero,
	}

	for _, expense := range field.Expenses {
		if !a.inWindow(expense.Date, field.Location) {
			continue
		}
		cat := ClassifyExpense(expense.Task)
		cost := expense.Cost.Decimal()
		ft.expenses[cat] = ft.expenses[cat].Add(cost)
		ft.expenseTotal = ft.expenseTotal.Add(cost)
		a.out.expenses[cat] = a.out.expenses[cat].Add(cost)
	}

	for _, sale := range field.OilSales {
		if !a.inWindow(sale.Date, field.Location) {
			continue
		}
		kg := sale.KilogramsSold.Decimal()
		amount := kg.Mul(sale.PricePerKilogram.Decimal())
		ft.oilSold = ft.oilSold.Add(kg)
		ft.profits[ProfitOilSales] = ft.profits[ProfitOilSales].Add(amount)
		ft.profitTotal = ft.profitTotal.Add(amount)
		a.out.profits[ProfitOilSales] = a.out.profits[ProfitOilSales].Add(amount)
	}

	for _, sale := range field.SackSales {
		if !a.inWindow(sale.Date, field.Location) {
			continue
		}
		sacks := sale.SacksSold.Decimal()
		amount := sacks.Mul(sale.PricePerSack.Decimal())
		ft.sacksSold = ft.sacksSold.Add(sacks)
		ft.profits[ProfitSackSales] = ft.profits[ProfitSackSales].Add(amount)
		ft.profitTotal = ft.profitTotal.Add(amount)
		a.out.profits[ProfitSackSales] = a.out.profits[ProfitSackSales].Add(amount)
	}

	return ft
}

// inWindow reports season membership. Malformed dates never belong to a season.
func (a *aggregator) inWindow(raw models.Date, location string) bool {
	date, ok := season.ParseDate(string(raw))
	if !ok {
		a.out.skipped++
		a.logger.Debug("skip record with invalid date",
			zap.String("location", location),
			zap.String("value", string(raw)))
		return false
	}
	return a.window.Contains(date)
}
