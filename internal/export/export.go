// Package export serializes events into downloadable calendar documents.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

// Format is an export file format.
type Format string

const (
	FormatICS  Format = "ics"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name case-insensitively. The empty string
// selects ICS.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatICS, nil
	case FormatICS, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatICS:
		return "text/calendar; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename is the attachment name for an export taken on day.
func (f Format) Filename(day time.Time) string {
	return fmt.Sprintf("calendar-%s.%s", day.Format("2006-01-02"), f)
}

// Mode selects what an export contains.
type Mode string

const (
	// ModeOccurrences exports every materialized occurrence as a standalone entry.
	ModeOccurrences Mode = "occurrences"
	// ModeSeries exports masters only; recurring masters carry an RRULE.
	ModeSeries Mode = "series"
)

// ParseMode accepts a mode name. The empty string selects occurrences.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeOccurrences, nil
	case ModeOccurrences, ModeSeries:
		return m, nil
	}
	return "", fmt.Errorf("unsupported export mode %q", s)
}

const (
	DefaultUIDDomain = "eventcalendar.com"
	DefaultProductID = "-//Event Calendar//Event Calendar//EN"
)

// Options configures an Exporter.
type Options struct {
	UIDDomain string
	ProductID string
	// Now stamps CREATED and DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

// Exporter writes event lists in the supported formats. It is stateless and
// safe for concurrent use.
type Exporter struct {
	uidDomain string
	productID string
	now       func() time.Time
}

// New creates an Exporter, filling unset options with defaults.
func New(opts Options) *Exporter {
	if opts.UIDDomain == "" {
		opts.UIDDomain = DefaultUIDDomain
	}
	if opts.ProductID == "" {
		opts.ProductID = DefaultProductID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Exporter{
		uidDomain: opts.UIDDomain,
		productID: opts.ProductID,
		now:       opts.Now,
	}
}

// Write serializes events in format f. mode only affects ICS; the other
// formats write the list as given.
func (x *Exporter) Write(w io.Writer, f Format, mode Mode, events []v1.Event) error {
	switch f {
	case FormatICS:
		return x.ICS(w, events, mode)
	case FormatCSV:
		return CSV(w, events)
	case FormatJSON:
		return JSON(w, events)
	case FormatYAML:
		return YAML(w, events)
	}
	return fmt.Errorf("unsupported export format %q", f)
}
