package v1

import (
	"fmt"
	"strings"
	"time"
)

// Recurrence is the repeat rule of a master event.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceCustom  Recurrence = "custom"
)

// Valid reports whether r is one of the known recurrence kinds.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

// Unit is the step unit of a custom recurrence.
type Unit string

const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
)

func (u Unit) Valid() bool {
	return u == UnitDays || u == UnitWeeks || u == UnitMonths
}

// MaxInterval is the largest accepted interval for the unit, roughly one
// hundred years. Unknown units return 0.
func (u Unit) MaxInterval() int {
	switch u {
	case UnitDays:
		return 36600
	case UnitWeeks:
		return 5300
	case UnitMonths:
		return 1200
	}
	return 0
}

// CustomRecurrence repeats an event every Interval Units.
type CustomRecurrence struct {
	Interval int  `json:"interval" yaml:"interval"`
	Unit     Unit `json:"unit" yaml:"unit"`
}

// Event is both the persisted master record and, with MasterID set, a derived
// occurrence of a recurring master.
type Event struct {
	// ID is assigned by the store on creation and never changes.
	// Occurrences carry "{masterID}-{unixMillis}".
	ID string `json:"id" yaml:"id"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Date is the anchor: the instant of a one-time event, or the first
	// occurrence of a series. Wall-clock semantics, no timezone math.
	Date time.Time `json:"date" yaml:"date"`

	Recurrence       Recurrence        `json:"recurrence" yaml:"recurrence"`
	Category         string            `json:"category,omitempty" yaml:"category,omitempty"`
	CustomRecurrence *CustomRecurrence `json:"customRecurrence,omitempty" yaml:"customRecurrence,omitempty"`

	// MasterID is set on generated occurrences only. Never persisted.
	MasterID string `json:"master_id,omitempty" yaml:"master_id,omitempty"`
}

// IsRecurring reports whether the event expands into occurrences.
func (e *Event) IsRecurring() bool {
	return e.Recurrence != "" && e.Recurrence != RecurrenceNone
}

// IsOccurrence reports whether the event was generated from a master.
func (e *Event) IsOccurrence() bool {
	return e.MasterID != ""
}

// Clone returns a deep copy (CustomRecurrence is a pointer).
func (e Event) Clone() Event {
	if e.CustomRecurrence != nil {
		cr := *e.CustomRecurrence
		e.CustomRecurrence = &cr
	}
	return e
}

// EventInput is the caller-supplied part of an event: everything but the id.
type EventInput struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Date             time.Time         `json:"date"`
	Recurrence       Recurrence        `json:"recurrence"`
	Category         string            `json:"category,omitempty"`
	CustomRecurrence *CustomRecurrence `json:"customRecurrence,omitempty"`
}

// Normalize trims text fields, defaults the recurrence to none and drops a
// custom rule attached to a non-custom recurrence.
func (in *EventInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Recurrence == "" {
		in.Recurrence = RecurrenceNone
	}
	if in.Recurrence != RecurrenceCustom {
		in.CustomRecurrence = nil
	}
}

// Validate checks the fields a form would have enforced. Call Normalize first.
func (in *EventInput) Validate() error {
	if in.Title == "" {
		return NewRequiredFieldError("title")
	}
	if in.Date.IsZero() {
		return NewRequiredFieldError("date")
	}
	if !in.Recurrence.Valid() {
		return &ValidationError{
			Field:   "recurrence",
			Message: fmt.Sprintf("unknown recurrence %q", in.Recurrence),
		}
	}
	if in.Recurrence != RecurrenceCustom {
		return nil
	}

	if in.CustomRecurrence == nil {
		return NewRequiredFieldError("customRecurrence")
	}
	if in.CustomRecurrence.Interval < 1 {
		return &ValidationError{
			Field:   "customRecurrence.interval",
			Message: fmt.Sprintf("must be >= 1, got %d", in.CustomRecurrence.Interval),
		}
	}
	if !in.CustomRecurrence.Unit.Valid() {
		return &ValidationError{
			Field:   "customRecurrence.unit",
			Message: fmt.Sprintf("unknown unit %q", in.CustomRecurrence.Unit),
		}
	}
	if limit := in.CustomRecurrence.Unit.MaxInterval(); in.CustomRecurrence.Interval > limit {
		return &ValidationError{
			Field:   "customRecurrence.interval",
			Message: fmt.Sprintf("must be <= %d %s, got %d", limit, in.CustomRecurrence.Unit, in.CustomRecurrence.Interval),
		}
	}
	return nil
}

// ToEvent builds a master event with the given id.
func (in EventInput) ToEvent(id string) Event {
	e := Event{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Recurrence:  in.Recurrence,
		Category:    in.Category,
	}
	if in.CustomRecurrence != nil {
		cr := *in.CustomRecurrence
		e.CustomRecurrence = &cr
	}
	return e
}

// Input returns the mutable fields of e.
func (e Event) Input() EventInput {
	c := e.Clone()
	return EventInput{
		Title:            c.Title,
		Description:      c.Description,
		Date:             c.Date,
		Recurrence:       c.Recurrence,
		Category:         c.Category,
		CustomRecurrence: c.CustomRecurrence,
	}
}

// Validate checks a stored master record, e.g. after loading it from storage.
func (e *Event) Validate() error {
	if e.ID == "" {
		return NewRequiredFieldError("id")
	}
	in := e.Input()
	if err := in.Validate(); err != nil {
		return err
	}
	if e.Recurrence != RecurrenceCustom && e.CustomRecurrence != nil {
		return &ValidationError{
			Field:   "customRecurrence",
			Message: "only allowed with custom recurrence",
		}
	}
	return nil
}
