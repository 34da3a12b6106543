package calendar

import (
	"errors"
	"fmt"
	"strings"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

var (
	// ErrNotFound is returned when updating or moving an unknown master.
	ErrNotFound = errors.New("event not found")

	// ErrBlocked matches every *BlockedError.
	ErrBlocked = errors.New("blocked by conflict policy")

	// ErrValidation wraps every *v1.ValidationError returned by the store.
	ErrValidation = errors.New("invalid event")
)

// BlockedError reports a mutation the conflict policy declined.
// The store is unchanged when it is returned.
type BlockedError struct {
	Action    Action
	Conflicts []v1.Event
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s blocked by conflict with: %s", e.Action, conflictTitles(e.Conflicts))
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrBlocked
}

func conflictTitles(events []v1.Event) string {
	titles := make([]string, len(events))
	for i, e := range events {
		titles[i] = e.Title
	}
	return strings.Join(titles, ", ")
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func notFoundError(id string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}
