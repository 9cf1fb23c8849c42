package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/csd4487/vedema/internal/analytics"
	"github.com/csd4487/vedema/internal/domain/models"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	args := m.Called(ctx, sheetRange, values)
	return args.Error(0)
}

func (m *mockRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	args := m.Called(ctx, sheetRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]interface{}), args.Error(1)
}

func ledgerFixture(repo *mockRepository) {
	repo.On("ReadRange", mock.Anything, fieldsRange).Return([][]interface{}{
		{"email", "location", "size", "oliveNo", "cubics", "price"},
		{"owner@example.com", "North", 4, 120, 2.5, 300},
		{"other@example.com", "Elsewhere", 1},
		{"owner@example.com", "South", "3"},
	}, nil)
	repo.On("ReadRange", mock.Anything, expensesRange).Return([][]interface{}{
		{"OWNER@example.com", "South", "2024-10-01", "spraying", "150"},
		{"owner@example.com", "", "2024-11-01", "fuel", 40, "tractor"},
		{"owner@example.com", "East", "2024-11-02", "irrigation", 10},
	}, nil)
	repo.On("ReadRange", mock.Anything, productionRange).Return([][]interface{}{
		{"owner@example.com", "North", "oil", "2024-11-20", 300},
		{"owner@example.com", "North", "sacks", "2024-11-18", 25},
	}, nil)
	repo.On("ReadRange", mock.Anything, salesRange).Return([][]interface{}{
		{"owner@example.com", "North", "oil", "2025-01-20", 10, 5},
		{"owner@example.com", "North", "sacks", "2025-01-21", 2},
	}, nil)
	repo.On("ReadRange", mock.Anything, otherProfitsRange).Return([][]interface{}{
		{"owner@example.com", "2025-02-02", "75", "subsidy"},
	}, nil)
}

func TestLedgerSource_LoadUser(t *testing.T) {
	repo := new(mockRepository)
	ledgerFixture(repo)

	user, err := NewLedgerSource(repo, nil).LoadUser(context.Background(), "owner@example.com")
	require.NoError(t, err)

	require.Len(t, user.Fields, 3)
	assert.Equal(t, "North", user.Fields[0].Location)
	assert.Equal(t, "South", user.Fields[1].Location)
	assert.Equal(t, "East", user.Fields[2].Location)

	north := user.Fields[0]
	assert.Equal(t, models.Numeric("120"), north.OliveTrees)
	assert.Len(t, north.OilProductions, 1)
	assert.Len(t, north.SackProductions, 1)
	require.Len(t, north.OilSales, 1)
	assert.Equal(t, models.Numeric("10"), north.OilSales[0].KilogramsSold)
	assert.Equal(t, models.Numeric("5"), north.OilSales[0].PricePerKilogram)
	require.Len(t, north.SackSales, 1)
	assert.True(t, north.SackSales[0].PricePerSack.Decimal().IsZero())

	require.Len(t, user.Fields[1].Expenses, 1)
	assert.Equal(t, "spraying", user.Fields[1].Expenses[0].Task)

	require.Len(t, user.OtherExpenses, 1)
	assert.Equal(t, "tractor", user.OtherExpenses[0].Notes)
	require.Len(t, user.OtherProfits, 1)
	assert.Equal(t, models.Date("2025-02-02"), user.OtherProfits[0].Date)
}

func TestLedgerSource_UnknownUser(t *testing.T) {
	repo := new(mockRepository)
	ledgerFixture(repo)

	_, err := NewLedgerSource(repo, nil).LoadUser(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLedgerSource_ReadFailure(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	_, err := NewLedgerSource(repo, nil).LoadUser(context.Background(), "owner@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSummaryExporter(t *testing.T) {
	repo := new(mockRepository)
	report := models.SeasonReport{
		Email:                 "owner@example.com",
		Season:                "2024-2025",
		TotalExpenses:         "250",
		TotalProfits:          "50.5",
		NetProfit:             "-199.5",
		FieldWithMostExpenses: "South",
		FieldWithMostProfits:  "North",
		CreatedAt:             time.Date(2025, time.March, 3, 6, 0, 0, 0, time.UTC),
	}
	repo.On("WriteRow", mock.Anything, summariesRange, []interface{}{
		"2025-03-03", "owner@example.com", "2024-2025", "250.00", "50.50", "-199.50", "South", "North",
	}).Return(nil)

	require.NoError(t, NewSummaryExporter(repo).ExportSeasonReport(context.Background(), report))
	repo.AssertExpectations(t)
}

func TestLedgerSource_MissingTabIsEmpty(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, fieldsRange).Return([][]interface{}{
		{"owner@example.com", "North"},
	}, nil)
	repo.On("ReadRange", mock.Anything, otherProfitsRange).Return(nil, fmt.Errorf("%w: %s", ErrRangeNotFound, otherProfitsRange))
	repo.On("ReadRange", mock.Anything, mock.Anything).Return([][]interface{}{}, nil)

	user, err := NewLedgerSource(repo, nil).LoadUser(context.Background(), "owner@example.com")
	require.NoError(t, err)
	require.Len(t, user.Fields, 1)
	assert.Empty(t, user.OtherProfits)
}

func TestClassify(t *testing.T) {
	missing := fmt.Errorf("read X!A:B: %w", &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: X!A:B"})
	assert.ErrorIs(t, classify("X!A:B", missing), ErrRangeNotFound)

	denied := fmt.Errorf("read Fields!A:F: %w", &googleapi.Error{Code: http.StatusForbidden, Message: "The caller does not have permission"})
	err := classify("Fields!A:F", denied)
	assert.NotErrorIs(t, err, ErrRangeNotFound)
	assert.Equal(t, denied, err)

	plain := errors.New("dial tcp: timeout")
	assert.Equal(t, plain, classify("Fields!A:F", plain))
}

func TestLedgerSource_DuplicateFieldRows(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, fieldsRange).Return([][]interface{}{
		{"owner@example.com", "North", 4},
		{"owner@example.com", "North", 6},
	}, nil)
	repo.On("ReadRange", mock.Anything, mock.Anything).Return([][]interface{}{}, nil)

	_, err := NewLedgerSource(repo, nil).LoadUser(context.Background(), "owner@example.com")
	assert.ErrorIs(t, err, analytics.ErrDuplicateLocation)
}

func TestLedgerSource_UnformattedCells(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReadRange", mock.Anything, fieldsRange).Return([][]interface{}{
		{"owner@example.com", "North"},
	}, nil)
	// 45566 is the serial number of 2024-10-01.
	repo.On("ReadRange", mock.Anything, expensesRange).Return([][]interface{}{
		{"owner@example.com", "North", float64(45566), "spraying", float64(1234.5)},
		{"owner@example.com", "North", "2024-10-02", "spraying", float64(1e21)},
	}, nil)
	repo.On("ReadRange", mock.Anything, mock.Anything).Return([][]interface{}{}, nil)

	user, err := NewLedgerSource(repo, nil).LoadUser(context.Background(), "owner@example.com")
	require.NoError(t, err)

	expenses := user.Fields[0].Expenses
	require.Len(t, expenses, 2)
	assert.Equal(t, models.Date("2024-10-01"), expenses[0].Date)
	assert.Equal(t, models.Numeric("1234.5"), expenses[0].Cost)
	assert.Equal(t, models.Date("2024-10-02"), expenses[1].Date)
	assert.Equal(t, models.Numeric("1000000000000000000000"), expenses[1].Cost)
}

func TestDateCell(t *testing.T) {
	row := []interface{}{nil, float64(45566.75), " 2025-01-20 ", float64(1)}
	assert.Equal(t, models.Date(""), dateCell(row, 0))
	assert.Equal(t, models.Date("2024-10-01"), dateCell(row, 1))
	assert.Equal(t, models.Date("2025-01-20"), dateCell(row, 2))
	assert.Equal(t, models.Date("1899-12-31"), dateCell(row, 3))
	assert.Equal(t, models.Date(""), dateCell(row, 9))
}
