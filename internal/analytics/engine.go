// Package analytics computes seasonal financial summaries over a read-only
// snapshot of a user's records. It performs no I/O and keeps no state between
// calls, so one Engine may serve concurrent requests.
package analytics

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/csd4487/vedema/internal/domain/models"
	"github.com/csd4487/vedema/internal/season"
)

// DefaultSeason is the season used by default analytics unless configured otherwise.
const DefaultSeason = "2024-2025"

// Engine runs aggregations.
type Engine struct {
	logger *zap.Logger
}

// NewEngine constructs an engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Summarize aggregates the user's records for the query's season and applies
// the query's view and field selection. Either a full result or an error is
// returned.
func (e *Engine) Summarize(user *models.User, q Query) (*Result, error) {
	id, err := season.Parse(q.Season)
	if err != nil {
		return nil, err
	}

	q, err = q.normalized()
	if err != nil {
		return nil, err
	}

	snap, err := NewSnapshot(user)
	if err != nil {
		return nil, err
	}

	fields, err := snap.selectFields(q.SelectedFields)
	if err != nil {
		return nil, err
	}

	t := aggregate(snap, id.Window(), fields, e.logger)
	if t.skipped > 0 {
		e.logger.Debug("records skipped during aggregation",
			zap.String("email", user.Email),
			zap.String("season", id.String()),
			zap.Int("skipped", t.skipped))
	}

	return assemble(id, q.ViewType, t), nil
}

// Seasons lists every season the user has a dated record in, newest first.
func (e *Engine) Seasons(user *models.User) ([]string, error) {
	if user == nil {
		return nil, errors.New("nil user snapshot")
	}

	var ids []season.ID
	collect := func(raw models.Date) {
		if date, ok := season.ParseDate(string(raw)); ok {
			ids = append(ids, season.Of(date))
		}
	}

	for i := range user.Fields {
		field := &user.Fields[i]
		for _, r := range field.Expenses {
			collect(r.Date)
		}
		for _, r := range field.SackProductions {
			collect(r.Date)
		}
		for _, r := range field.OilProductions {
			collect(r.Date)
		}
		for _, r := range field.SackSales {
			collect(r.Date)
		}
		for _, r := range field.OilSales {
			collect(r.Date)
		}
	}
	for _, r := range user.OtherExpenses {
		collect(r.Date)
	}
	for _, r := range user.OtherProfits {
		collect(r.Date)
	}

	return season.Sort(ids), nil
}

// IsNotFound reports whether err refers to a missing user or field.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrUserNotFound) || errors.Is(err, ErrFieldNotFound)
}

// IsInvalidQuery reports whether err stems from caller-supplied query values.
func IsInvalidQuery(err error) bool {
	return errors.Is(err, season.ErrInvalidSeason) || errors.Is(err, ErrInvalidViewType)
}

// Describe renders a one-line digest of a result for logs and exports.
func Describe(res *Result) string {
	if res == nil {
		return ""
	}
	line := fmt.Sprintf("season %s", res.Season)
	if res.TotalExpenses != nil {
		line += fmt.Sprintf(", expenses %s", res.TotalExpenses.StringFixed(2))
	}
	if res.TotalProfits != nil {
		line += fmt.Sprintf(", profits %s", res.TotalProfits.StringFixed(2))
	}
	if res.NetProfit != nil {
		line += fmt.Sprintf(", net %s", res.NetProfit.StringFixed(2))
	}
	return line
}
