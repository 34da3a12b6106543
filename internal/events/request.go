package events

import (
	"fmt"
	"strings"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

// Accepted wall-clock layouts, tried in order. RFC 3339 values keep their
// written wall clock; the offset is dropped.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

const dayLayout = "2006-01-02"

// eventRequest is the JSON body of create and update.
type eventRequest struct {
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Date             string               `json:"date"`
	Recurrence       v1.Recurrence        `json:"recurrence"`
	Category         string               `json:"category"`
	CustomRecurrence *v1.CustomRecurrence `json:"customRecurrence"`
}

func (r eventRequest) toInput(loc *time.Location) (v1.EventInput, error) {
	in := v1.EventInput{
		Title:            r.Title,
		Description:      r.Description,
		Recurrence:       r.Recurrence,
		Category:         r.Category,
		CustomRecurrence: r.CustomRecurrence,
	}
	if strings.TrimSpace(r.Date) == "" {
		return in, nil
	}

	date, err := parseDateTime(r.Date, loc)
	if err != nil {
		return in, &v1.ValidationError{Field: "date", Message: err.Error()}
	}
	in.Date = date
	return in, nil
}

// moveRequest is the JSON body of move. Only the calendar day of Date is used.
type moveRequest struct {
	Date string `json:"date"`
}

// parseDateTime reads a naive wall-clock value in loc. An RFC 3339 value is
// taken at its written wall clock, so "10:00Z" is 10:00 in loc.
func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return wallClock(t, loc), nil
	}
	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DDTHH:MM[:SS])", s)
}

// parseDay reads a calendar day in loc. Full date-times are accepted and
// truncated to their day.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := parseDateTime(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized day %q (want YYYY-MM-DD)", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// parseMonth reads "YYYY-MM" and returns the first day of that month in loc.
func parseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized month %q (want YYYY-MM)", s)
	}
	return t, nil
}

// wallClock re-reads t's date and clock in loc.
func wallClock(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
