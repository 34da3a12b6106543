package export

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/core/recurrence"
	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

// floatingLayout is an iCalendar DATE-TIME without a zone: the wall clock is
// read as-is by the importing calendar.
const floatingLayout = "20060102T150405"

// EventDuration is the length given to every exported event.
const EventDuration = time.Hour

// ICS writes events as an iCalendar document. In ModeSeries the caller passes
// masters and each recurring master gets an RRULE; in ModeOccurrences every
// event is written as a one-off entry.
func (x *Exporter) ICS(w io.Writer, events []v1.Event, mode Mode) error {
	now := x.now()

	cal := ical.NewCalendar()
	cal.SetProductId(x.productID)
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ical.MethodPublish)

	for _, e := range events {
		ev := cal.AddEvent(x.UID(e.ID))
		ev.SetDtStampTime(now)
		ev.SetProperty(ical.ComponentPropertyDtStart, e.Date.Format(floatingLayout))
		ev.SetProperty(ical.ComponentPropertyDtEnd, e.Date.Add(EventDuration).Format(floatingLayout))
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Category != "" {
			ev.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(e.Category))
		}
		ev.SetCreatedTime(now)

		if mode != ModeSeries {
			continue
		}
		if opt, ok := Rule(e); ok {
			ev.SetProperty(ical.ComponentPropertyRrule, opt.RRuleString())
		} else if e.IsRecurring() {
			slog.Warn("[Export] Recurring event has no valid rule, exported as a single entry",
				"event_id", e.ID, "recurrence", e.Recurrence)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// UID is the iCalendar UID of an event id.
func (x *Exporter) UID(id string) string {
	return id + "@" + x.uidDomain
}

// Rule translates a master's recurrence into an RRULE option set anchored at
// its date. ok is false for one-time events and malformed custom rules.
//
// Monthly steps clamp to the last day of short months, which a bare
// FREQ=MONTHLY does not: anchors on day 29 or later are written as
// BYMONTHDAY=d,-1;BYSETPOS=1 so the earlier of "day d" and "last day" wins.
func Rule(master v1.Event) (rrule.ROption, bool) {
	step, ok := recurrence.StepFor(master)
	if !ok {
		return rrule.ROption{}, false
	}

	opt := rrule.ROption{Dtstart: master.Date}
	switch {
	case step.Months != 0:
		opt.Freq = rrule.MONTHLY
		opt.Interval = step.Months
		if d := master.Date.Day(); d >= 29 {
			opt.Bymonthday = []int{d, -1}
			opt.Bysetpos = []int{1}
		}
	case step.Days%7 == 0:
		opt.Freq = rrule.WEEKLY
		opt.Interval = step.Days / 7
	default:
		opt.Freq = rrule.DAILY
		opt.Interval = step.Days
	}
	return opt, true
}
