package recurrence

import (
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

// Step is one repeat interval. Exactly one of Days or Months is non-zero.
type Step struct {
	Days   int
	Months int
}

// StepFor returns the step of a recurring master. ok is false for
// non-recurring events and for malformed custom rules (interval < 1 or
// above the unit's maximum).
func StepFor(e v1.Event) (Step, bool) {
	switch e.Recurrence {
	case v1.RecurrenceDaily:
		return Step{Days: 1}, true
	case v1.RecurrenceWeekly:
		return Step{Days: 7}, true
	case v1.RecurrenceMonthly:
		return Step{Months: 1}, true
	case v1.RecurrenceCustom:
		cr := e.CustomRecurrence
		if cr == nil || cr.Interval < 1 || cr.Interval > cr.Unit.MaxInterval() {
			return Step{}, false
		}
		switch cr.Unit {
		case v1.UnitDays:
			return Step{Days: cr.Interval}, true
		case v1.UnitWeeks:
			return Step{Days: 7 * cr.Interval}, true
		case v1.UnitMonths:
			return Step{Months: cr.Interval}, true
		}
	}
	return Step{}, false
}

// Apply returns anchor advanced by k steps. Wall-clock time is preserved.
func (s Step) Apply(anchor time.Time, k int) time.Time {
	if s.Months != 0 {
		return AddMonths(anchor, k*s.Months)
	}
	return anchor.AddDate(0, 0, k*s.Days)
}

// firstIndex returns a step index k >= 1 whose occurrence falls on a calendar
// day strictly before from's day, or 1. Walking forward from k never skips an
// occurrence on or after from.
func (s Step) firstIndex(anchor, from time.Time) int {
	var k int
	if s.Months != 0 {
		ay, am, _ := anchor.Date()
		fy, fm, _ := from.Date()
		months := (fy-ay)*12 + int(fm-am)
		k = months/s.Months - 1
	} else {
		k = civilDays(anchor, from)/s.Days - 1
	}
	if k < 1 {
		return 1
	}
	return k
}

// AddMonths adds n calendar months, clamping the day-of-month to the target
// month's length: Jan 31 + 1 month is Feb 28 (Feb 29 in leap years).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// civilDays counts calendar days from a's date to b's date.
func civilDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
