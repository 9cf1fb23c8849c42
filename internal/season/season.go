// Package season maps calendar dates onto agricultural seasons. A season runs
// from September 1 through August 31 of the following year and is identified
// as "<startYear>-<startYear+1>".
package season

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSeason indicates a season identifier that cannot be parsed.
var ErrInvalidSeason = errors.New("invalid season identifier")

const (
	dateLayout = "2006-01-02"
	startMonth = time.September
)

// ID identifies a season by its start year.
type ID struct {
	StartYear int
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Of returns the season a date belongs to.
func Of(t time.Time) ID {
	if t.Month() >= startMonth {
		return ID{StartYear: t.Year()}
	}
	return ID{StartYear: t.Year() - 1}
}

// Current returns the season of the supplied instant.
func Current(now time.Time) ID {
	return Of(now)
}

// Parse reads a "Y-Y+1" identifier.
func Parse(id string) (ID, error) {
	parts := strings.Split(strings.TrimSpace(id), "-")
	if len(parts) != 2 {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidSeason, id)
	}

	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidSeason, id)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil || end != start+1 || start < 1 {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidSeason, id)
	}

	return ID{StartYear: start}, nil
}

// String renders the identifier.
func (s ID) String() string {
	return fmt.Sprintf("%d-%d", s.StartYear, s.StartYear+1)
}

// Window returns the inclusive date range of the season.
func (s ID) Window() Window {
	return Window{
		Start: time.Date(s.StartYear, startMonth, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(s.StartYear+1, time.August, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Bounds parses the identifier and returns its window.
func Bounds(id string) (Window, error) {
	s, err := Parse(id)
	if err != nil {
		return Window{}, err
	}
	return s.Window(), nil
}

// Contains reports whether t falls inside the window, both ends included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ParseDate reads a wire date. Only ISO YYYY-MM-DD is accepted; a longer ISO
// timestamp is cut down to its date part when a 'T' or space follows the date.
func ParseDate(raw string) (time.Time, bool) {
	str := strings.TrimSpace(raw)
	if len(str) < len(dateLayout) {
		return time.Time{}, false
	}
	if len(str) > len(dateLayout) {
		if sep := str[len(dateLayout)]; sep != 'T' && sep != ' ' {
			return time.Time{}, false
		}
	}
	t, err := time.Parse(dateLayout, str[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Sort de-duplicates ids and orders them newest first.
func Sort(ids []ID) []string {
	seen := make(map[int]struct{}, len(ids))
	unique := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id.StartYear]; ok {
			continue
		}
		seen[id.StartYear] = struct{}{}
		unique = append(unique, id)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].StartYear > unique[j].StartYear
	})

	out := make([]string, 0, len(unique))
	for _, id := range unique {
		out = append(out, id.String())
	}
	return out
}
