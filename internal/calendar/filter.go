package calendar

import (
	"sort"
	"strings"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

// Filter narrows an event list the way the calendar views do: a
// case-insensitive search over title and description plus an exact category.
// Empty fields match everything.
type Filter struct {
	Query    string
	Category string
}

// Match reports whether e passes the filter.
func (f Filter) Match(e v1.Event) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) {
			return false
		}
	}
	return f.Category == "" || e.Category == f.Category
}

// Apply returns the events that match, preserving order.
func (f Filter) Apply(events []v1.Event) []v1.Event {
	out := make([]v1.Event, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Categories returns the distinct non-empty categories of events, sorted.
func Categories(events []v1.Event) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range events {
		if e.Category == "" {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	sort.Strings(out)
	return out
}
