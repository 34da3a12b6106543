package v1

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventInput_Validation(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		input     EventInput
		wantField string
		checkFn   func(*testing.T, *EventInput)
	}{
		{
			name:  "valid one-time event",
			input: EventInput{Title: "Dentist", Date: at, Recurrence: RecurrenceNone},
		},
		{
			name:  "recurrence defaults to none",
			input: EventInput{Title: "Dentist", Date: at},
			checkFn: func(t *testing.T, in *EventInput) {
				require.Equal(t, RecurrenceNone, in.Recurrence)
			},
		},
		{
			name:  "title is trimmed",
			input: EventInput{Title: "  Standup \n", Description: " notes ", Date: at},
			checkFn: func(t *testing.T, in *EventInput) {
				require.Equal(t, "Standup", in.Title)
				require.Equal(t, "notes", in.Description)
			},
		},
		{
			name: "custom rule dropped for weekly",
			input: EventInput{
				Title:            "Gym",
				Date:             at,
				Recurrence:       RecurrenceWeekly,
				CustomRecurrence: &CustomRecurrence{Interval: 3, Unit: UnitDays},
			},
			checkFn: func(t *testing.T, in *EventInput) {
				require.Nil(t, in.CustomRecurrence)
			},
		},
		{
			name: "valid custom",
			input: EventInput{
				Title:            "Payroll",
				Date:             at,
				Recurrence:       RecurrenceCustom,
				CustomRecurrence: &CustomRecurrence{Interval: 2, Unit: UnitWeeks},
			},
		},
		{name: "blank title", input: EventInput{Title: "   ", Date: at}, wantField: "title"},
		{name: "missing date", input: EventInput{Title: "x"}, wantField: "date"},
		{name: "unknown recurrence", input: EventInput{Title: "x", Date: at, Recurrence: "yearly"}, wantField: "recurrence"},
		{name: "custom without rule", input: EventInput{Title: "x", Date: at, Recurrence: RecurrenceCustom}, wantField: "customRecurrence"},
		{
			name: "custom zero interval",
			input: EventInput{
				Title:            "x",
				Date:             at,
				Recurrence:       RecurrenceCustom,
				CustomRecurrence: &CustomRecurrence{Interval: 0, Unit: UnitDays},
			},
			wantField: "customRecurrence.interval",
		},
		{
			name: "custom unknown unit",
			input: EventInput{
				Title:            "x",
				Date:             at,
				Recurrence:       RecurrenceCustom,
				CustomRecurrence: &CustomRecurrence{Interval: 1, Unit: "years"},
			},
			wantField: "customRecurrence.unit",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.input
			in.Normalize()
			err := in.Validate()
			if tc.wantField != "" {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
				require.Equal(t, tc.wantField, ve.Field)
				require.Equal(t, tc.wantField, ve.Details()["field"])
				return
			}
			require.NoError(t, err)
			if tc.checkFn != nil {
				tc.checkFn(t, &in)
			}
		})
	}
}

func TestEvent_ValidateStoredRecord(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	ok := Event{ID: "a", Title: "A", Date: at, Recurrence: RecurrenceDaily}
	require.NoError(t, ok.Validate())

	noID := Event{Title: "A", Date: at, Recurrence: RecurrenceNone}
	require.Error(t, noID.Validate())

	stray := Event{
		ID:               "a",
		Title:            "A",
		Date:             at,
		Recurrence:       RecurrenceMonthly,
		CustomRecurrence: &CustomRecurrence{Interval: 1, Unit: UnitDays},
	}
	require.ErrorContains(t, stray.Validate(), "only allowed with custom recurrence")
}

func TestEvent_CloneIsDeep(t *testing.T) {
	e := Event{
		ID:               "a",
		Recurrence:       RecurrenceCustom,
		CustomRecurrence: &CustomRecurrence{Interval: 2, Unit: UnitDays},
	}
	c := e.Clone()
	c.CustomRecurrence.Interval = 9

	require.Equal(t, 2, e.CustomRecurrence.Interval)
}

func TestEvent_JSONShape(t *testing.T) {
	e := Event{
		ID:               "abc",
		Title:            "Payroll",
		Date:             time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC),
		Recurrence:       RecurrenceCustom,
		CustomRecurrence: &CustomRecurrence{Interval: 2, Unit: UnitWeeks},
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "2024-01-31T09:00:00Z", raw["date"])
	require.Equal(t, map[string]interface{}{"interval": float64(2), "unit": "weeks"}, raw["customRecurrence"])
	require.NotContains(t, raw, "category")
	require.NotContains(t, raw, "master_id")
}

func TestEventInput_IntervalUpperBound(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for _, unit := range []Unit{UnitDays, UnitWeeks, UnitMonths} {
		t.Run(string(unit), func(t *testing.T) {
			in := EventInput{
				Title:            "Huge",
				Date:             at,
				Recurrence:       RecurrenceCustom,
				CustomRecurrence: &CustomRecurrence{Interval: unit.MaxInterval(), Unit: unit},
			}
			require.NoError(t, in.Validate())

			for _, interval := range []int{unit.MaxInterval() + 1, 1 << 62} {
				in.CustomRecurrence.Interval = interval
				err := in.Validate()
				require.Error(t, err)

				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				require.Equal(t, "customRecurrence.interval", verr.Field)
			}
		})
	}
}
