package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/csd4487/vedema/internal/analytics"
	"github.com/csd4487/vedema/internal/domain/models"
)

type mockLister struct{ mock.Mock }

func (m *mockLister) ListUserEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockSummarizer struct{ mock.Mock }

func (m *mockSummarizer) FilteredAnalytics(ctx context.Context, req models.FilteredAnalyticsRequest) (*analytics.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Result), args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) SaveSeasonReport(ctx context.Context, report models.SeasonReport) error {
	return m.Called(ctx, report).Error(0)
}

type mockExporter struct{ mock.Mock }

func (m *mockExporter) ExportSeasonReport(ctx context.Context, report models.SeasonReport) error {
	return m.Called(ctx, report).Error(0)
}

var digestNow = time.Date(2024, time.October, 15, 6, 0, 0, 0, time.UTC)

func bothResult(seasonID string, expenses, profits int64, leader string) *analytics.Result {
	e, p := decimal.NewFromInt(expenses), decimal.NewFromInt(profits)
	net := p.Sub(e)
	return &analytics.Result{
		Season:                seasonID,
		ViewType:              analytics.ViewBoth,
		FieldWithMostExpenses: &leader,
		FieldWithMostProfits:  &leader,
		TotalExpenses:         &e,
		TotalProfits:          &p,
		NetProfit:             &net,
	}
}

func newTestDigest(l *mockLister, s *mockSummarizer, st *mockStore, ex ReportExporter) *DigestService {
	svc := NewDigestService(l, s, st, ex, 2, nil)
	svc.now = func() time.Time { return digestNow }
	svc.newID = func() string { return "report-1" }
	return svc
}

func forUser(email string) interface{} {
	return mock.MatchedBy(func(req models.FilteredAnalyticsRequest) bool {
		return req.Email == email && req.Season == "2024-2025" && req.ViewType == "Both"
	})
}

func TestRunDigest_StoresAndExportsEveryUser(t *testing.T) {
	l, s, st, ex := new(mockLister), new(mockSummarizer), new(mockStore), new(mockExporter)

	l.On("ListUserEmails", mock.Anything).Return([]string{"a@example.com", "b@example.com"}, nil)
	s.On("FilteredAnalytics", mock.Anything, forUser("a@example.com")).Return(bothResult("2024-2025", 250, 1000, "South"), nil)
	s.On("FilteredAnalytics", mock.Anything, forUser("b@example.com")).Return(bothResult("2024-2025", 0, 0, analytics.NoFieldsSentinel), nil)

	expectedA := models.SeasonReport{
		ID:                    "report-1",
		Email:                 "a@example.com",
		Season:                "2024-2025",
		TotalExpenses:         models.NumericOf(decimal.NewFromInt(250)),
		TotalProfits:          models.NumericOf(decimal.NewFromInt(1000)),
		NetProfit:             models.NumericOf(decimal.NewFromInt(750)),
		FieldWithMostExpenses: "South",
		FieldWithMostProfits:  "South",
		CreatedAt:             digestNow,
	}
	st.On("SaveSeasonReport", mock.Anything, expectedA).Return(nil).Once()
	st.On("SaveSeasonReport", mock.Anything, mock.MatchedBy(func(r models.SeasonReport) bool {
		return r.Email == "b@example.com" && r.FieldWithMostExpenses == analytics.NoFieldsSentinel
	})).Return(nil).Once()
	ex.On("ExportSeasonReport", mock.Anything, mock.Anything).Return(nil).Twice()

	err := newTestDigest(l, s, st, ex).RunDigest(context.Background())

	require.NoError(t, err)
	l.AssertExpectations(t)
	s.AssertExpectations(t)
	st.AssertExpectations(t)
	ex.AssertExpectations(t)
}

func TestRunDigest_ContinuesPastFailingUser(t *testing.T) {
	l, s, st := new(mockLister), new(mockSummarizer), new(mockStore)

	l.On("ListUserEmails", mock.Anything).Return([]string{"gone@example.com", "ok@example.com"}, nil)
	s.On("FilteredAnalytics", mock.Anything, forUser("gone@example.com")).Return(nil, models.ErrUserNotFound)
	s.On("FilteredAnalytics", mock.Anything, forUser("ok@example.com")).Return(bothResult("2024-2025", 10, 20, "North"), nil)
	st.On("SaveSeasonReport", mock.Anything, mock.Anything).Return(nil).Once()

	err := newTestDigest(l, s, st, nil).RunDigest(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	st.AssertExpectations(t)
}

func TestRunDigest_ListFailure(t *testing.T) {
	l := new(mockLister)
	l.On("ListUserEmails", mock.Anything).Return(nil, errors.New("no connection"))

	err := newTestDigest(l, new(mockSummarizer), new(mockStore), nil).RunDigest(context.Background())

	assert.EqualError(t, err, "list users: no connection")
}

func TestRunDigest_StoreFailure(t *testing.T) {
	l, s, st, ex := new(mockLister), new(mockSummarizer), new(mockStore), new(mockExporter)

	l.On("ListUserEmails", mock.Anything).Return([]string{"a@example.com"}, nil)
	s.On("FilteredAnalytics", mock.Anything, forUser("a@example.com")).Return(bothResult("2024-2025", 1, 2, "South"), nil)
	st.On("SaveSeasonReport", mock.Anything, mock.Anything).Return(errors.New("write conflict"))

	err := newTestDigest(l, s, st, ex).RunDigest(context.Background())

	assert.ErrorContains(t, err, "save report for a@example.com")
	ex.AssertNotCalled(t, "ExportSeasonReport", mock.Anything, mock.Anything)
}

func TestNewSeasonReport_RequiresBothSides(t *testing.T) {
	res := bothResult("2024-2025", 1, 2, "South")
	res.NetProfit = nil

	_, err := newSeasonReport("id", "a@example.com", res, digestNow)
	assert.Error(t, err)

	_, err = newSeasonReport("id", "a@example.com", nil, digestNow)
	assert.Error(t, err)
}
