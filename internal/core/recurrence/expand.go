package recurrence

import (
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

// DefaultMaxOccurrences caps a single expansion. Twelve months of a daily
// series is 366 entries, so the cap only trips on misuse.
const DefaultMaxOccurrences = 5000

// Expander turns a recurring master into dated occurrences. It holds no
// state besides its cap and is safe for concurrent use.
type Expander struct {
	maxOccurrences int
}

// NewExpander creates an expander. maxOccurrences <= 0 selects the default.
func NewExpander(maxOccurrences int) *Expander {
	if maxOccurrences <= 0 {
		maxOccurrences = DefaultMaxOccurrences
	}
	return &Expander{maxOccurrences: maxOccurrences}
}

var defaultExpander = NewExpander(DefaultMaxOccurrences)

// Expand uses the default expander.
func Expand(master v1.Event, horizonEnd time.Time) []v1.Event {
	return defaultExpander.Expand(master, horizonEnd)
}

// Between uses the default expander.
func Between(master v1.Event, from, until, horizonEnd time.Time) []v1.Event {
	return defaultExpander.Between(master, from, until, horizonEnd)
}

// Expand returns the occurrences of master strictly after its anchor and
// strictly before horizonEnd, in increasing date order. The master itself is
// never part of the result. Non-recurring masters yield nil.
func (x *Expander) Expand(master v1.Event, horizonEnd time.Time) []v1.Event {
	step, ok := StepFor(master)
	if !ok {
		return nil
	}
	return x.expandStep(master, step, horizonEnd)
}

// expandStep walks anchor + k·step for k >= 1. The walk ends at horizonEnd,
// at the cap, or as soon as a step fails to move forward.
func (x *Expander) expandStep(master v1.Event, step Step, horizonEnd time.Time) []v1.Event {
	var out []v1.Event
	prev := master.Date
	for k := 1; ; k++ {
		at := step.Apply(master.Date, k)
		if !at.Before(horizonEnd) || !at.After(prev) {
			break
		}
		prev = at
		if len(out) >= x.maxOccurrences {
			x.logTruncated(master)
			break
		}
		out = append(out, NewOccurrence(master, at))
	}
	return out
}

// Between returns the occurrences of master in [from, until) that are also
// before horizonEnd. The result equals filtering Expand(master, horizonEnd)
// to [from, until), but the walk starts near from instead of at the anchor.
func (x *Expander) Between(master v1.Event, from, until, horizonEnd time.Time) []v1.Event {
	step, ok := StepFor(master)
	if !ok {
		return nil
	}

	end := until
	if horizonEnd.Before(end) {
		end = horizonEnd
	}
	if !from.Before(end) {
		return nil
	}

	var out []v1.Event
	prev := master.Date
	for k := step.firstIndex(master.Date, from); ; k++ {
		at := step.Apply(master.Date, k)
		if !at.Before(end) || !at.After(prev) {
			break
		}
		prev = at
		if at.Before(from) {
			continue
		}
		if len(out) >= x.maxOccurrences {
			x.logTruncated(master)
			break
		}
		out = append(out, NewOccurrence(master, at))
	}
	return out
}

func (x *Expander) logTruncated(master v1.Event) {
	slog.Warn("[Recurrence] Expansion truncated",
		"master_id", master.ID,
		"recurrence", master.Recurrence,
		"cap", x.maxOccurrences)
}

// NewOccurrence projects master onto at.
func NewOccurrence(master v1.Event, at time.Time) v1.Event {
	occ := master.Clone()
	occ.ID = OccurrenceID(master.ID, at)
	occ.Date = at
	occ.MasterID = master.ID
	return occ
}

// OccurrenceID is "{masterID}-{unix milliseconds}".
func OccurrenceID(masterID string, at time.Time) string {
	return fmt.Sprintf("%s-%d", masterID, at.UnixMilli())
}
