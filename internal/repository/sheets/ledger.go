package sheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/csd4487/vedema/internal/analytics"
	"github.com/csd4487/vedema/internal/domain/models"
)

const (
	fieldsRange       = "Fields!A:F"
	expensesRange     = "Expenses!A:F"
	productionRange   = "Production!A:E"
	salesRange        = "Sales!A:F"
	otherProfitsRange = "OtherProfits!A:D"
	summariesRange    = "Summaries!A:H"
)

// LedgerSource rebuilds a user snapshot from ledger tabs. Every row starts with
// the owner's email; rows of other owners are ignored.
//
//	Fields:       email, location, size, oliveNo, cubics, price
//	Expenses:     email, location (empty when unattached), date, task, cost, notes
//	Production:   email, location, kind (sacks|oil), date, quantity
//	Sales:        email, location, kind (sacks|oil), date, quantity, price
//	OtherProfits: email, date, amount, notes
//
// Cells are read unformatted, so currency or thousands formatting on number
// cells is ignored. Date cells may hold real dates or ISO YYYY-MM-DD text.
type LedgerSource struct {
	repo   Repository
	logger *zap.Logger
}

// NewLedgerSource wraps a range repository.
func NewLedgerSource(repository Repository, logger *zap.Logger) *LedgerSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerSource{repo: repository, logger: logger}
}

// LoadUser reads every ledger tab and keeps the rows belonging to email.
func (s *LedgerSource) LoadUser(ctx context.Context, email string) (models.User, error) {
	ranges := []string{fieldsRange, expensesRange, productionRange, salesRange, otherProfitsRange}
	tabs := make([][][]interface{}, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	for i, sheetRange := range ranges {
		g.Go(func() error {
			rows, err := s.repo.ReadRange(gctx, sheetRange)
			if errors.Is(err, ErrRangeNotFound) {
				s.logger.Debug("ledger tab missing, treated as empty", zap.String("range", sheetRange))
				return nil
			}
			if err != nil {
				return fmt.Errorf("load ledger range: %w", err)
			}
			tabs[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.User{}, err
	}

	b := newLedgerBuilder(email)
	if err := b.addFields(tabs[0]); err != nil {
		return models.User{}, err
	}
	b.addExpenses(tabs[1])
	b.addProduction(tabs[2])
	b.addSales(tabs[3])
	b.addOtherProfits(tabs[4])

	if b.matched == 0 {
		return models.User{}, models.ErrUserNotFound
	}

	s.logger.Debug("ledger snapshot assembled",
		zap.String("email", email),
		zap.Int("rows", b.matched),
		zap.Int("fields", len(b.user.Fields)))

	return b.user, nil
}

type ledgerBuilder struct {
	email   string
	user    models.User
	index   map[string]int
	matched int
}

func newLedgerBuilder(email string) *ledgerBuilder {
	return &ledgerBuilder{
		email: strings.TrimSpace(email),
		user:  models.User{Email: strings.TrimSpace(email)},
		index: make(map[string]int),
	}
}

// owned returns the row as strings when it belongs to the builder's email.
func (b *ledgerBuilder) owned(row []interface{}) ([]string, bool) {
	cells := toStrings(row)
	if !strings.EqualFold(safeGet(cells, 0), b.email) {
		return nil, false
	}
	b.matched++
	return cells, true
}

// field returns the field for location, creating it in first-seen order.
func (b *ledgerBuilder) field(location string) *models.Field {
	if i, ok := b.index[location]; ok {
		return &b.user.Fields[i]
	}
	b.user.Fields = append(b.user.Fields, models.Field{Location: location})
	b.index[location] = len(b.user.Fields) - 1
	return &b.user.Fields[len(b.user.Fields)-1]
}

// addFields declares fields in row order. A location may be declared once.
func (b *ledgerBuilder) addFields(rows [][]interface{}) error {
	declared := make(map[string]struct{})
	for _, row := range rows {
		cells, ok := b.owned(row)
		if !ok {
			continue
		}
		location := safeGet(cells, 1)
		if _, dup := declared[location]; dup {
			return fmt.Errorf("%w: %q", analytics.ErrDuplicateLocation, location)
		}
		declared[location] = struct{}{}

		f := b.field(location)
		f.Size = models.Numeric(safeGet(cells, 2))
		f.OliveTrees = models.Numeric(safeGet(cells, 3))
		f.Cubics = models.Numeric(safeGet(cells, 4))
		f.Price = models.Numeric(safeGet(cells, 5))
	}
	return nil
}

func (b *ledgerBuilder) addExpenses(rows [][]interface{}) {
	for _, row := range rows {
		cells, ok := b.owned(row)
		if !ok {
			continue
		}
		expense := models.Expense{
			Date:  dateCell(row, 2),
			Task:  safeGet(cells, 3),
			Cost:  models.Numeric(safeGet(cells, 4)),
			Notes: safeGet(cells, 5),
		}
		location := safeGet(cells, 1)
		if location == "" {
			b.user.OtherExpenses = append(b.user.OtherExpenses, expense)
			continue
		}
		f := b.field(location)
		f.Expenses = append(f.Expenses, expense)
	}
}

func (b *ledgerBuilder) addProduction(rows [][]interface{}) {
	for _, row := range rows {
		cells, ok := b.owned(row)
		if !ok {
			continue
		}
		entry := models.Production{
			Date:     dateCell(row, 3),
			Quantity: models.Numeric(safeGet(cells, 4)),
		}
		f := b.field(safeGet(cells, 1))
		switch strings.ToLower(safeGet(cells, 2)) {
		case "oil":
			f.OilProductions = append(f.OilProductions, entry)
		default:
			f.SackProductions = append(f.SackProductions, entry)
		}
	}
}

func (b *ledgerBuilder) addSales(rows [][]interface{}) {
	for _, row := range rows {
		cells, ok := b.owned(row)
		if !ok {
			continue
		}
		date := dateCell(row, 3)
		quantity := models.Numeric(safeGet(cells, 4))
		price := models.Numeric(safeGet(cells, 5))

		f := b.field(safeGet(cells, 1))
		switch strings.ToLower(safeGet(cells, 2)) {
		case "oil":
			f.OilSales = append(f.OilSales, models.OilSale{KilogramsSold: quantity, PricePerKilogram: price, Date: date})
		default:
			f.SackSales = append(f.SackSales, models.SackSale{SacksSold: quantity, PricePerSack: price, Date: date})
		}
	}
}

func (b *ledgerBuilder) addOtherProfits(rows [][]interface{}) {
	for _, row := range rows {
		cells, ok := b.owned(row)
		if !ok {
			continue
		}
		b.user.OtherProfits = append(b.user.OtherProfits, models.OtherProfit{
			Date:   dateCell(row, 1),
			Amount: models.Numeric(safeGet(cells, 2)),
			Notes:  safeGet(cells, 3),
		})
	}
}

// SummaryExporter appends season digests to the Summaries tab.
type SummaryExporter struct {
	repo Repository
}

// NewSummaryExporter wraps a range repository.
func NewSummaryExporter(repository Repository) *SummaryExporter {
	return &SummaryExporter{repo: repository}
}

// ExportSeasonReport appends one digest row.
func (e *SummaryExporter) ExportSeasonReport(ctx context.Context, report models.SeasonReport) error {
	values := []interface{}{
		report.CreatedAt.UTC().Format("2006-01-02"),
		report.Email,
		report.Season,
		report.TotalExpenses.Decimal().StringFixed(2),
		report.TotalProfits.Decimal().StringFixed(2),
		report.NetProfit.Decimal().StringFixed(2),
		report.FieldWithMostExpenses,
		report.FieldWithMostProfits,
	}
	return e.repo.WriteRow(ctx, summariesRange, values)
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch value := v.(type) {
		case nil:
		case float64:
			out[i] = strconv.FormatFloat(value, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(value))
		}
	}
	return out
}

// sheetsEpoch is day zero of the spreadsheet date serial numbers.
var sheetsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateCell reads a date column. Real date cells arrive as serial day numbers;
// text is passed through for the season parser to judge.
func dateCell(row []interface{}, i int) models.Date {
	if i < 0 || i >= len(row) {
		return ""
	}
	switch value := row[i].(type) {
	case nil:
		return ""
	case float64:
		return models.DateOf(sheetsEpoch.AddDate(0, 0, int(math.Floor(value))))
	default:
		return models.Date(strings.TrimSpace(fmt.Sprint(value)))
	}
}

func safeGet(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}
