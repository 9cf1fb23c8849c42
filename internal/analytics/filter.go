package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidViewType indicates an unknown view selector.
var ErrInvalidViewType = errors.New("invalid view type")

// ViewType selects which side of the ledger a query reports.
type ViewType string

const (
	ViewExpenses ViewType = "Expenses"
	ViewProfits  ViewType = "Profits"
	ViewBoth     ViewType = "Both"
)

// ParseViewType reads a view selector case-insensitively; empty means Both.
func ParseViewType(raw string) (ViewType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "both":
		return ViewBoth, nil
	case "expenses":
		return ViewExpenses, nil
	case "profits":
		return ViewProfits, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidViewType, raw)
	}
}

// ShowsExpenses reports whether expense-side sections are produced.
func (v ViewType) ShowsExpenses() bool {
	return v == ViewExpenses || v == ViewBoth
}

// ShowsProfits reports whether profit-side sections are produced.
func (v ViewType) ShowsProfits() bool {
	return v == ViewProfits || v == ViewBoth
}

// Query narrows an analytics computation.
type Query struct {
	Season         string
	ViewType       ViewType
	SelectedFields []string
	// SelectedTasks is accepted from callers but does not narrow the result.
	SelectedTasks []string
}

// DefaultQuery reports both sides over every field for one season.
func DefaultQuery(seasonID string) Query {
	return Query{Season: seasonID, ViewType: ViewBoth}
}

func (q Query) normalized() (Query, error) {
	view, err := ParseViewType(string(q.ViewType))
	if err != nil {
		return Query{}, err
	}
	q.ViewType = view

	selected := make([]string, 0, len(q.SelectedFields))
	seen := make(map[string]struct{}, len(q.SelectedFields))
	for _, loc := range q.SelectedFields {
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		selected = append(selected, loc)
	}
	q.SelectedFields = selected

	return q, nil
}
