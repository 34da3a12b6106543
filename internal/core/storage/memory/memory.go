package memory

import (
	"context"
	"sync"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
)

// Repository is an in-memory implementation of storage.Repository.
// Useful for testing and development.
type Repository struct {
	mu     sync.RWMutex
	events []v1.Event
	saves  int
}

// NewRepository creates a repository seeded with a copy of events.
func NewRepository(events ...v1.Event) *Repository {
	return &Repository{events: copyEvents(events)}
}

func (r *Repository) Load(ctx context.Context) ([]v1.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Return a copy to prevent external modification
	return copyEvents(r.events), nil
}

func (r *Repository) Save(ctx context.Context, events []v1.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = copyEvents(events)
	r.saves++
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return nil
}

// Saves returns how many times Save was called.
func (r *Repository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

func copyEvents(events []v1.Event) []v1.Event {
	out := make([]v1.Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}
