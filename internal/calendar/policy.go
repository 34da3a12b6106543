package calendar

import (
	"fmt"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

// Action names the mutation being gated.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionMove   Action = "move"
	ActionDelete Action = "delete" // never gated
)

// ConflictRequest is handed to a Policy when a mutation clashes with stored
// masters.
type ConflictRequest struct {
	Action    Action
	Candidate v1.Event
	Conflicts []v1.Event
}

// Message is the confirmation prompt shown to a user.
func (r ConflictRequest) Message() string {
	titles := conflictTitles(r.Conflicts)
	switch r.Action {
	case ActionUpdate:
		return fmt.Sprintf("This event conflicts with: %s. Do you want to update it anyway?", titles)
	case ActionMove:
		return fmt.Sprintf("Moving this event conflicts with: %s. Do you want to move it anyway?", titles)
	default:
		return fmt.Sprintf("This event conflicts with: %s. Do you want to add it anyway?", titles)
	}
}

// Policy decides whether a conflicting mutation proceeds.
//
// Decide runs while the store holds its write lock. It must not call back
// into the store.
type Policy interface {
	Decide(req ConflictRequest) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(req ConflictRequest) bool

func (f PolicyFunc) Decide(req ConflictRequest) bool {
	return f(req)
}

var (
	// Allow applies every mutation regardless of conflicts.
	Allow Policy = PolicyFunc(func(ConflictRequest) bool { return true })

	// Block rejects every conflicting mutation.
	Block Policy = PolicyFunc(func(ConflictRequest) bool { return false })
)

// Ask defers to confirm with the prompt text, e.g. an interactive yes/no.
func Ask(confirm func(message string) bool) Policy {
	return PolicyFunc(func(req ConflictRequest) bool {
		return confirm(req.Message())
	})
}
