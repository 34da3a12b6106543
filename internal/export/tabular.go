package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"gopkg.in/yaml.v3"
)

var csvHeader = []string{"Title", "Date", "Time", "Description", "Category", "Recurrence"}

// CSV writes one row per event under a fixed header. Date and time are the
// event's wall clock.
func CSV(w io.Writer, events []v1.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range events {
		row := []string{
			e.Title,
			e.Date.Format("2006-01-02"),
			e.Date.Format("15:04"),
			e.Description,
			e.Category,
			string(e.Recurrence),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes the events as an indented array.
func JSON(w io.Writer, events []v1.Event) error {
	if events == nil {
		events = []v1.Event{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// YAML writes the events as a YAML sequence.
func YAML(w io.Writer, events []v1.Event) error {
	if events == nil {
		events = []v1.Event{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
