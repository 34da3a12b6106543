package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/core/recurrence"
	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

var exportedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testExporter() *Exporter {
	return New(Options{Now: func() time.Time { return exportedAt }})
}

func sampleEvents() []v1.Event {
	return []v1.Event{
		{
			ID:         "standup",
			Title:      "Standup",
			Date:       time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			Recurrence: v1.RecurrenceWeekly,
			Category:   "work",
		},
		{
			ID:          "dentist",
			Title:       "Dentist",
			Description: "Bring forms",
			Date:        time.Date(2024, 2, 3, 14, 30, 0, 0, time.UTC),
			Recurrence:  v1.RecurrenceNone,
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatICS, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	require.Equal(t, FormatCSV, f)

	f, err = ParseFormat("yml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeOccurrences, m)

	m, err = ParseMode("series")
	require.NoError(t, err)
	require.Equal(t, ModeSeries, m)

	_, err = ParseMode("flat")
	require.Error(t, err)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "calendar-2024-03-01.ics", FormatICS.Filename(exportedAt))
	require.Equal(t, "calendar-2024-03-01.yaml", FormatYAML.Filename(exportedAt))
}

func TestICS_Occurrences(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testExporter().ICS(&buf, sampleEvents(), ModeOccurrences))

	out := buf.String()
	require.Contains(t, out, "PRODID:-//Event Calendar//Event Calendar//EN")
	require.Contains(t, out, "CALSCALE:GREGORIAN")
	require.Contains(t, out, "METHOD:PUBLISH")
	require.NotContains(t, out, "RRULE")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	standup := events[0]
	require.Equal(t, "standup@eventcalendar.com", prop(t, standup, ical.ComponentPropertyUniqueId))
	require.Equal(t, "20240115T090000", prop(t, standup, ical.ComponentPropertyDtStart))
	require.Equal(t, "20240115T100000", prop(t, standup, ical.ComponentPropertyDtEnd))
	require.Equal(t, "Standup", prop(t, standup, ical.ComponentPropertySummary))
	require.Equal(t, "WORK", prop(t, standup, ical.ComponentPropertyCategories))
	require.Equal(t, "20240301T120000Z", prop(t, standup, ical.ComponentPropertyCreated))

	dentist := events[1]
	require.Equal(t, "20240203T143000", prop(t, dentist, ical.ComponentPropertyDtStart))
	require.Nil(t, dentist.GetProperty(ical.ComponentPropertyCategories))
}

func TestICS_Series(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testExporter().ICS(&buf, sampleEvents(), ModeSeries))

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	rule := prop(t, events[0], ical.ComponentPropertyRrule)
	require.Contains(t, rule, "FREQ=WEEKLY")
	require.Nil(t, events[1].GetProperty(ical.ComponentPropertyRrule))

	// The emitted rule must parse back into the same weekly series.
	opt, err := rrule.StrToROption(rule)
	require.NoError(t, err)
	require.Equal(t, rrule.WEEKLY, opt.Freq)
}

func TestICS_CustomUIDDomain(t *testing.T) {
	x := New(Options{UIDDomain: "example.org", Now: func() time.Time { return exportedAt }})
	require.Equal(t, "abc@example.org", x.UID("abc"))
}

func TestRule_NonRecurring(t *testing.T) {
	_, ok := Rule(v1.Event{Recurrence: v1.RecurrenceNone})
	require.False(t, ok)

	_, ok = Rule(v1.Event{
		Recurrence:       v1.RecurrenceCustom,
		CustomRecurrence: &v1.CustomRecurrence{Interval: 0, Unit: v1.UnitDays},
	})
	require.False(t, ok)
}

// An RRULE consumer must see exactly the occurrences the expander produces.
func TestRule_MatchesExpander(t *testing.T) {
	cases := []struct {
		name   string
		master v1.Event
	}{
		{"daily", v1.Event{Date: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Recurrence: v1.RecurrenceDaily}},
		{"weekly", v1.Event{Date: time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC), Recurrence: v1.RecurrenceWeekly}},
		{"monthly", v1.Event{Date: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), Recurrence: v1.RecurrenceMonthly}},
		{"monthly on 31st", v1.Event{Date: time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC), Recurrence: v1.RecurrenceMonthly}},
		{"monthly on 30th", v1.Event{Date: time.Date(2023, 11, 30, 7, 0, 0, 0, time.UTC), Recurrence: v1.RecurrenceMonthly}},
		{"every 3 days", v1.Event{
			Date: time.Date(2024, 2, 27, 8, 0, 0, 0, time.UTC), Recurrence: v1.RecurrenceCustom,
			CustomRecurrence: &v1.CustomRecurrence{Interval: 3, Unit: v1.UnitDays},
		}},
		{"every 2 weeks", v1.Event{
			Date: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC), Recurrence: v1.RecurrenceCustom,
			CustomRecurrence: &v1.CustomRecurrence{Interval: 2, Unit: v1.UnitWeeks},
		}},
		{"every 2 months on 29th", v1.Event{
			Date: time.Date(2023, 12, 29, 12, 0, 0, 0, time.UTC), Recurrence: v1.RecurrenceCustom,
			CustomRecurrence: &v1.CustomRecurrence{Interval: 2, Unit: v1.UnitMonths},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			horizon := tc.master.Date.AddDate(1, 0, 0)

			opt, ok := Rule(tc.master)
			require.True(t, ok)
			r, err := rrule.NewRRule(opt)
			require.NoError(t, err)

			var want []time.Time
			for _, occ := range recurrence.Expand(tc.master, horizon) {
				want = append(want, occ.Date)
			}
			got := r.Between(tc.master.Date, horizon, false)

			require.Equal(t, want, got)
		})
	}
}

func TestCSV(t *testing.T) {
	events := sampleEvents()
	events[1].Description = "Bring forms, insurance card"

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, events))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Title", "Date", "Time", "Description", "Category", "Recurrence"},
		{"Standup", "2024-01-15", "09:00", "", "work", "weekly"},
		{"Dentist", "2024-02-03", "14:30", "Bring forms, insurance card", "", "none"},
	}, rows)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleEvents()))
	require.Contains(t, buf.String(), "\n  {")

	var decoded []v1.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, sampleEvents(), decoded)

	buf.Reset()
	require.NoError(t, JSON(&buf, nil))
	require.JSONEq(t, `[]`, buf.String())
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, sampleEvents()))

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "standup", decoded[0]["id"])
	require.Equal(t, "weekly", decoded[0]["recurrence"])
	require.Equal(t, "Bring forms", decoded[1]["description"])
}

func TestWrite_Dispatch(t *testing.T) {
	x := testExporter()
	for _, f := range []Format{FormatICS, FormatCSV, FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		require.NoError(t, x.Write(&buf, f, ModeOccurrences, sampleEvents()), f)
		require.NotZero(t, buf.Len(), f)
	}

	require.Error(t, x.Write(&bytes.Buffer{}, Format("pdf"), ModeOccurrences, nil))
}

func prop(t *testing.T, ev *ical.VEvent, p ical.ComponentProperty) string {
	t.Helper()
	got := ev.GetProperty(p)
	require.NotNil(t, got, "missing %s", p)
	return got.Value
}
