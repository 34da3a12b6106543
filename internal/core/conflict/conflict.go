// Package conflict detects scheduling clashes between master events.
//
// Only stored masters are compared. Occurrences generated from another
// master's recurrence are not checked against a candidate.
package conflict

import (
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/core/recurrence"
)

// DefaultWindow is the distance under which two anchors on the same day clash.
const DefaultWindow = time.Hour

// Detector flags masters whose anchors are too close to a candidate.
type Detector struct {
	window time.Duration
}

// NewDetector creates a detector. window <= 0 selects DefaultWindow.
func NewDetector(window time.Duration) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{window: window}
}

// Window returns the configured clash distance.
func (d *Detector) Window() time.Duration {
	return d.window
}

// Find returns, in list order, every master e with e.ID != excludeID whose
// anchor is on the candidate's calendar day and strictly less than the window
// away from it. An empty excludeID excludes nothing.
func (d *Detector) Find(masters []v1.Event, candidate v1.Event, excludeID string) []v1.Event {
	var out []v1.Event
	for _, e := range masters {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if d.Clash(e.Date, candidate.Date) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Clash reports whether two anchors conflict.
func (d *Detector) Clash(a, b time.Time) bool {
	if !recurrence.SameDay(a, b) {
		return false
	}
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff < d.window
}
