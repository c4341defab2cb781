package store

import (
	"sort"
	"sync"
	"time"

	"github.com/fuelops/atgmon/core/model"
)

// DefaultQueryLimit caps event pages when the caller does not set one.
const DefaultQueryLimit = 100

// EventQuery filters the event log. Zero values mean "no filter".
type EventQuery struct {
	SiteID string
	TankID string
	Type   *model.EventType
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// QueryResult is one page of matching events. NextOffset is nil on the last
// page.
type QueryResult struct {
	Events     []model.Event `json:"events"`
	Total      int           `json:"total"`
	NextOffset *int          `json:"nextOffset,omitempty"`
}

// EventStore is the append-only log of ATG events. Events are never mutated
// or removed once appended; the log is sorted chronologically once after
// seeding and queries return events in stored order.
type EventStore struct {
	mu     sync.RWMutex
	events []model.Event
	seeded bool
}

// NewEventStore returns an empty store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Append validates and adds a single event to the log.
func (s *EventStore) Append(ev model.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

// AppendAll appends a batch, stopping at the first invalid event.
func (s *EventStore) AppendAll(evs []model.Event) error {
	for _, ev := range evs {
		if err := s.Append(ev); err != nil {
			return err
		}
	}
	return nil
}

// SortChronological orders the full log ascending by timestamp. Seeding
// appends tank by tank, so a single global sort afterwards establishes the
// ordering invariant all derivations rely on.
func (s *EventStore) SortChronological() {
	s.mu.Lock()
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].Timestamp.Before(s.events[j].Timestamp)
	})
	s.mu.Unlock()
}

// MarkSeeded flips the one-shot seeding flag. It returns true only for the
// caller that performs the flip, making seeding an atomic check-and-set.
func (s *EventStore) MarkSeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return false
	}
	s.seeded = true
	return true
}

// Seeded reports whether the store has been seeded.
func (s *EventStore) Seeded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seeded
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func matches(ev model.Event, q EventQuery) bool {
	if q.SiteID != "" && ev.SiteID != q.SiteID {
		return false
	}
	if q.TankID != "" && ev.TankID != q.TankID {
		return false
	}
	if q.Type != nil && ev.Type != *q.Type {
		return false
	}
	if !q.From.IsZero() && ev.Timestamp.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && ev.Timestamp.After(q.To) {
		return false
	}
	return true
}

// Query returns one page of events matching all provided filters, in stored
// order. Filtering is a linear scan, which is fine at this data scale.
func (s *EventStore) Query(q EventQuery) QueryResult {
	if q.Limit <= 0 {
		q.Limit = DefaultQueryLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.Event
	for _, ev := range s.events {
		if matches(ev, q) {
			matched = append(matched, ev)
		}
	}
	total := len(matched)
	if q.Offset >= total {
		return QueryResult{Events: []model.Event{}, Total: total}
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	page := make([]model.Event, end-q.Offset)
	copy(page, matched[q.Offset:end])
	res := QueryResult{Events: page, Total: total}
	if end < total {
		next := end
		res.NextOffset = &next
	}
	return res
}

// ForSite returns a copy of all events for a site in stored order.
func (s *EventStore) ForSite(siteID string) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Event
	for _, ev := range s.events {
		if ev.SiteID == siteID {
			out = append(out, ev)
		}
	}
	return out
}

// ByID looks up a single event.
func (s *EventStore) ByID(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}
