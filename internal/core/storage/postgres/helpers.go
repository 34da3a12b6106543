package postgres

import (
	"database/sql"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/core/storage"
)

// eventArgs flattens a master into queryInsertEvent arguments.
// Category and the custom rule are NULL when absent.
func eventArgs(event v1.Event, position int) []interface{} {
	var category, unit sql.NullString
	var interval sql.NullInt64

	if event.Category != "" {
		category = sql.NullString{String: event.Category, Valid: true}
	}
	if cr := event.CustomRecurrence; cr != nil {
		interval = sql.NullInt64{Int64: int64(cr.Interval), Valid: true}
		unit = sql.NullString{String: string(cr.Unit), Valid: true}
	}

	return []interface{}{
		event.ID,
		position,
		event.Title,
		event.Description,
		wallClock(event.Date, time.UTC),
		string(event.Recurrence),
		category,
		interval,
		unit,
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEventRow scans a database row into an Event struct.
// The anchor column has no zone; its wall clock is placed in loc.
// Records violating the event invariants wrap storage.ErrMalformed.
func scanEventRow(row scanner, loc *time.Location) (v1.Event, error) {
	var evt v1.Event
	var recurrence string
	var category, unit sql.NullString
	var interval sql.NullInt64

	err := row.Scan(
		&evt.ID,
		&evt.Title,
		&evt.Description,
		&evt.Date,
		&recurrence,
		&category,
		&interval,
		&unit,
	)
	if err != nil {
		return v1.Event{}, fmt.Errorf("failed to scan event row: %w", err)
	}

	evt.Date = wallClock(evt.Date, loc)
	evt.Recurrence = v1.Recurrence(recurrence)
	evt.Category = category.String
	if interval.Valid || unit.Valid {
		evt.CustomRecurrence = &v1.CustomRecurrence{
			Interval: int(interval.Int64),
			Unit:     v1.Unit(unit.String),
		}
	}

	if err := evt.Validate(); err != nil {
		return v1.Event{}, fmt.Errorf("%w: event %q: %v", storage.ErrMalformed, evt.ID, err)
	}
	return evt, nil
}

// wallClock keeps t's calendar date and clock reading but moves it to loc.
func wallClock(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), loc)
}
