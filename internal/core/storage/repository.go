package storage

import (
	"context"
	"errors"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

// ErrMalformed is returned when persisted events cannot be decoded.
// Callers treat it as recoverable and continue with an empty master list.
var ErrMalformed = errors.New("malformed event storage")

// Repository persists the master event list as a whole.
type Repository interface {
	// Load returns the stored masters in their saved order, or an empty
	// list when nothing was saved yet.
	Load(ctx context.Context) ([]v1.Event, error)

	// Save replaces the stored list with events.
	Save(ctx context.Context, events []v1.Event) error

	// Ping reports whether the backing medium is reachable.
	Ping(ctx context.Context) error
}
