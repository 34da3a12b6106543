// Package stats summarizes an occurrence list for dashboards.
package stats

import (
	"sort"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Uncategorized is the bucket for events without a category.
const Uncategorized = "uncategorized"

var hundred = decimal.NewFromInt(100)

// Summary counts events relative to a reference instant.
type Summary struct {
	Today      int             `json:"today"`
	ThisWeek   int             `json:"this_week"`
	ThisMonth  int             `json:"this_month"`
	Recurring  int             `json:"recurring"`
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// CategoryCount is one category bucket. Share is the percentage of Total,
// rounded to one decimal place.
type CategoryCount struct {
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Share decimal.Decimal `json:"share"`
}

// Compute summarizes events, typically the result of AllOccurrences. Day,
// week and month membership use wall-clock dates; the week starts on
// weekStart.
func Compute(events []v1.Event, now time.Time, weekStart time.Weekday) Summary {
	today := civil(now)
	weekFrom := today.AddDate(0, 0, -((int(now.Weekday()) - int(weekStart) + 7) % 7))
	weekTo := weekFrom.AddDate(0, 0, 7)

	s := Summary{Total: len(events)}
	counts := make(map[string]int)

	for _, e := range events {
		day := civil(e.Date)
		if day.Equal(today) {
			s.Today++
		}
		if !day.Before(weekFrom) && day.Before(weekTo) {
			s.ThisWeek++
		}
		if day.Year() == today.Year() && day.Month() == today.Month() {
			s.ThisMonth++
		}
		if e.IsRecurring() {
			s.Recurring++
		}

		name := e.Category
		if name == "" {
			name = Uncategorized
		}
		counts[name]++
	}

	s.Categories = make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		s.Categories = append(s.Categories, CategoryCount{
			Name:  name,
			Count: n,
			Share: share(n, s.Total),
		})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		a, b := s.Categories[i], s.Categories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	return s
}

func share(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}

// civil drops the clock and zone, keeping the wall-clock date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
