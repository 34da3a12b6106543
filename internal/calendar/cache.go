package calendar

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/core/recurrence"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheCapacity is the default number of cached expansions.
const DefaultCacheCapacity = 1024

// expansionKey identifies one cached expansion. Horizon is rounded up to the
// next midnight so that queries with a moving clock share entries.
type expansionKey struct {
	MasterID string
	Horizon  int64
}

type expansionEntry struct {
	key    expansionKey
	events []v1.Event
}

// expansionCache is a thread-safe LRU of expanded series.
type expansionCache struct {
	expander *recurrence.Expander

	mu       sync.Mutex
	capacity int
	entries  map[expansionKey]*list.Element
	order    *list.List

	group singleflight.Group // Dedupe concurrent expansions
}

// newExpansionCache creates a cache. capacity <= 0 disables caching.
func newExpansionCache(expander *recurrence.Expander, capacity int) *expansionCache {
	return &expansionCache{
		expander: expander,
		capacity: capacity,
		entries:  make(map[expansionKey]*list.Element),
		order:    list.New(),
	}
}

// Expand returns master's occurrences before horizonEnd. The result is a
// private copy.
func (c *expansionCache) Expand(master v1.Event, horizonEnd time.Time) []v1.Event {
	if c.capacity <= 0 {
		return c.expander.Expand(master, horizonEnd)
	}

	bound := ceilDay(horizonEnd)
	key := expansionKey{MasterID: master.ID, Horizon: bound.UnixMilli()}

	events, ok := c.get(key)
	if !ok {
		v, _, _ := c.group.Do(fmt.Sprintf("%s@%d", key.MasterID, key.Horizon), func() (interface{}, error) {
			if cached, ok := c.get(key); ok {
				return cached, nil
			}
			expanded := c.expander.Expand(master, bound)
			c.put(key, expanded)
			return expanded, nil
		})
		events = v.([]v1.Event)
	}

	out := make([]v1.Event, 0, len(events))
	for _, e := range events {
		if !e.Date.Before(horizonEnd) {
			break
		}
		out = append(out, e.Clone())
	}
	return out
}

func (c *expansionCache) get(key expansionKey) ([]v1.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*expansionEntry).events, true
}

func (c *expansionCache) put(key expansionKey, events []v1.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[key]; exists {
		c.order.MoveToFront(elem)
		elem.Value.(*expansionEntry).events = events
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.entries, oldest.Value.(*expansionEntry).key)
			c.order.Remove(oldest)
		}
	}

	c.entries[key] = c.order.PushFront(&expansionEntry{key: key, events: events})
}

// Invalidate drops every horizon cached for masterID.
func (c *expansionCache) Invalidate(masterID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if entry := elem.Value.(*expansionEntry); entry.key.MasterID == masterID {
			delete(c.entries, entry.key)
			c.order.Remove(elem)
		}
		elem = next
	}
}

func ceilDay(t time.Time) time.Time {
	day := recurrence.StartOfDay(t)
	if day.Equal(t) {
		return day
	}
	return day.AddDate(0, 0, 1)
}
