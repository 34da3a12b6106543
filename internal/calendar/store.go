// Package calendar owns the master event list. It gates every mutation
// through conflict detection and answers occurrence queries by expanding
// recurring masters on demand.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/core/conflict"
	"github.com/aevon-lab/calendar-engine/internal/core/recurrence"
	"github.com/aevon-lab/calendar-engine/internal/core/storage"
	"github.com/google/uuid"
)

// DefaultHorizonMonths is the look-ahead used when expanding series.
const DefaultHorizonMonths = 12

// Options tunes a Store. Zero values select the defaults.
type Options struct {
	HorizonMonths  int
	ConflictWindow time.Duration
	CacheCapacity  int
	MaxOccurrences int

	// Now is the clock behind AllOccurrences. Defaults to time.Now.
	Now func() time.Time
	// NewID generates master ids. Defaults to uuid.NewString.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.HorizonMonths <= 0 {
		o.HorizonMonths = DefaultHorizonMonths
	}
	if o.CacheCapacity == 0 {
		o.CacheCapacity = DefaultCacheCapacity
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Store is the canonical, concurrency-safe list of master events.
type Store struct {
	repo     storage.Repository
	detector *conflict.Detector
	expander *recurrence.Expander
	cache    *expansionCache

	horizonMonths int
	now           func() time.Time
	newID         func() string

	mu      sync.RWMutex
	masters []v1.Event
}

// New creates an empty store backed by repo.
func New(repo storage.Repository, opts Options) *Store {
	if repo == nil {
		panic("calendar: repository cannot be nil")
	}
	opts = opts.withDefaults()
	expander := recurrence.NewExpander(opts.MaxOccurrences)

	return &Store{
		repo:          repo,
		detector:      conflict.NewDetector(opts.ConflictWindow),
		expander:      expander,
		cache:         newExpansionCache(expander, opts.CacheCapacity),
		horizonMonths: opts.HorizonMonths,
		now:           opts.Now,
		newID:         opts.NewID,
		masters:       []v1.Event{},
	}
}

// Open creates a store and loads the persisted masters.
//
// When the persisted data is malformed, Open returns a usable empty store
// together with an error wrapping storage.ErrMalformed. Any other load
// failure returns a nil store.
func Open(ctx context.Context, repo storage.Repository, opts Options) (*Store, error) {
	s := New(repo, opts)

	events, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrMalformed) {
			slog.Warn("[Store] Stored events are malformed, starting empty", "error", err)
			return s, err
		}
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	seen := make(map[string]struct{}, len(events))
	masters := make([]v1.Event, 0, len(events))
	for _, e := range events {
		e = e.Clone()
		e.MasterID = ""
		if err := e.Validate(); err != nil {
			slog.Warn("[Store] Stored event is invalid, starting empty", "event_id", e.ID, "error", err)
			return s, fmt.Errorf("%w: event %q: %v", storage.ErrMalformed, e.ID, err)
		}
		if _, dup := seen[e.ID]; dup {
			slog.Warn("[Store] Duplicate stored event id, starting empty", "event_id", e.ID)
			return s, fmt.Errorf("%w: duplicate event id %q", storage.ErrMalformed, e.ID)
		}
		seen[e.ID] = struct{}{}
		masters = append(masters, e)
	}

	s.masters = masters
	slog.Info("[Store] Loaded events", "count", len(masters))
	return s, nil
}

// Masters returns a copy of the master list in insertion order.
func (s *Store) Masters() []v1.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.masters)
}

// Get returns the master with the given id.
func (s *Store) Get(id string) (v1.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return v1.Event{}, notFoundError(id)
	}
	return s.masters[i].Clone(), nil
}

// OccurrencesOnDate returns the masters anchored on date's calendar day,
// followed by the occurrences of recurring masters on that day. Series are
// expanded up to date plus the horizon. Each group is ordered by time of day.
func (s *Store) OccurrencesOnDate(date time.Time) []v1.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	horizon := recurrence.AddMonths(date, s.horizonMonths)
	y, m, d := date.Date()

	var direct, generated []v1.Event
	for _, master := range s.masters {
		if recurrence.SameDay(master.Date, date) {
			direct = append(direct, master.Clone())
		}
		if !master.IsRecurring() {
			continue
		}
		// Day bounds follow the master's wall clock.
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, master.Date.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)
		generated = append(generated, s.expander.Between(master, dayStart, dayEnd, horizon)...)
	}

	sortByTimeOfDay(direct)
	sortByTimeOfDay(generated)
	return append(direct, generated...)
}

// AllOccurrences returns every master followed by the occurrences of every
// recurring master up to now plus the horizon.
func (s *Store) AllOccurrences() []v1.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	horizon := recurrence.AddMonths(s.now(), s.horizonMonths)

	out := cloneAll(s.masters)
	for _, master := range s.masters {
		if master.IsRecurring() {
			out = append(out, s.cache.Expand(master, horizon)...)
		}
	}
	return out
}

// ConflictsFor returns the masters that clash with candidate, skipping
// excludeID.
func (s *Store) ConflictsFor(candidate v1.Event, excludeID string) []v1.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector.Find(s.masters, candidate, excludeID)
}

// Create validates input, assigns a fresh id and appends the new master if
// it is conflict-free or policy allows it.
func (s *Store) Create(ctx context.Context, input v1.EventInput, policy Policy) (v1.Event, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return v1.Event{}, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := input.ToEvent(s.freshID())
	if err := s.gate(ActionCreate, candidate, "", policy); err != nil {
		return v1.Event{}, err
	}

	s.masters = append(s.masters, candidate)
	s.persist(ctx, ActionCreate)

	slog.Debug("[Store] Event created", "event_id", candidate.ID, "recurrence", candidate.Recurrence)
	return candidate.Clone(), nil
}

// Update replaces the master id with input, keeping the id and the list
// position.
func (s *Store) Update(ctx context.Context, id string, input v1.EventInput, policy Policy) (v1.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return v1.Event{}, notFoundError(id)
	}

	input.Normalize()
	if err := input.Validate(); err != nil {
		return v1.Event{}, validationError(err)
	}

	candidate := input.ToEvent(id)
	if err := s.gate(ActionUpdate, candidate, id, policy); err != nil {
		return v1.Event{}, err
	}

	s.masters[i] = candidate
	s.cache.Invalidate(id)
	s.persist(ctx, ActionUpdate)

	slog.Debug("[Store] Event updated", "event_id", id)
	return candidate.Clone(), nil
}

// Delete removes the master id. Unknown ids are a no-op; the result reports
// whether anything was removed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.masters = append(s.masters[:i:i], s.masters[i+1:]...)
	s.cache.Invalidate(id)
	s.persist(ctx, ActionDelete)

	slog.Debug("[Store] Event deleted", "event_id", id)
	return true
}

// Move puts the master id on newDate's calendar day. The original time of
// day and location are kept; only the date part of newDate is used.
func (s *Store) Move(ctx context.Context, id string, newDate time.Time, policy Policy) (v1.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return v1.Event{}, notFoundError(id)
	}

	candidate := s.masters[i].Clone()
	candidate.Date = onDay(candidate.Date, newDate)
	if err := s.gate(ActionMove, candidate, id, policy); err != nil {
		return v1.Event{}, err
	}

	s.masters[i] = candidate
	s.cache.Invalidate(id)
	s.persist(ctx, ActionMove)

	slog.Debug("[Store] Event moved", "event_id", id, "date", candidate.Date)
	return candidate.Clone(), nil
}

// Ping checks the backing repository.
func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// gate runs conflict detection and the policy. Callers hold the write lock.
// A nil policy blocks.
func (s *Store) gate(action Action, candidate v1.Event, excludeID string, policy Policy) error {
	conflicts := s.detector.Find(s.masters, candidate, excludeID)
	if len(conflicts) == 0 {
		return nil
	}

	req := ConflictRequest{Action: action, Candidate: candidate.Clone(), Conflicts: conflicts}
	if policy != nil && policy.Decide(req) {
		slog.Info("[Store] Conflict overridden by policy",
			"action", action,
			"event_id", candidate.ID,
			"conflicts", len(conflicts))
		return nil
	}

	slog.Info("[Store] Mutation blocked by conflict",
		"action", action,
		"event_id", candidate.ID,
		"conflicts", len(conflicts))
	return &BlockedError{Action: action, Conflicts: conflicts}
}

// persist saves a snapshot. Failures are logged, the in-memory mutation
// stands.
func (s *Store) persist(ctx context.Context, action Action) {
	if err := s.repo.Save(ctx, cloneAll(s.masters)); err != nil {
		slog.Error("[Store] Failed to persist events",
			"action", action,
			"count", len(s.masters),
			"error", err)
	}
}

func (s *Store) freshID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.masters {
		if s.masters[i].ID == id {
			return i
		}
	}
	return -1
}

// onDay returns t's wall clock on day's calendar date.
func onDay(t, day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func sortByTimeOfDay(events []v1.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return clockOf(events[i].Date) < clockOf(events[j].Date)
	})
}

func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

func cloneAll(events []v1.Event) []v1.Event {
	out := make([]v1.Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}
