package event_log

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryEventStore keeps all state in process memory:
//   - events: the primary map, id -> event
//   - order: ids in append order, the total order every projection observes
//   - downstream: the causal index, source id -> ids that named it as a
//     source, in append order; grows monotonically, never pruned
//   - projections: notification list in registration order, deduplicated by
//     instance identity
//
// Append runs duplicate check, insert, causal-index update and projection
// fan-out under one lock. That single critical section is what makes the
// duplicate check safe against concurrent appends and gives projections the
// true global store order. The flip side: a slow projection stalls every
// subsequent append. Acceptable at audit scale; the projection loop is the
// seam to make asynchronous if that ever stops being true.
type InMemoryEventStore struct {
	mu sync.RWMutex

	events     map[EventID]Event
	order      []EventID
	downstream map[EventID][]EventID

	projections []Projection
	registered  map[Projection]struct{}

	logger *slog.Logger
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events:     make(map[EventID]Event),
		downstream: make(map[EventID][]EventID),
		registered: make(map[Projection]struct{}),
	}
}

// NewInMemoryEventStoreWithLogger returns a store that writes a debug line
// per append. A nil logger disables logging, same as NewInMemoryEventStore.
func NewInMemoryEventStoreWithLogger(logger *slog.Logger) *InMemoryEventStore {
	s := NewInMemoryEventStore()
	s.logger = logger
	return s
}

func (s *InMemoryEventStore) Append(event Event) error {
	if event.IsZero() {
		return ErrNotStorable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEvent, event.id)
	}

	s.events[event.id] = event
	s.order = append(s.order, event.id)

	// The index is keyed by the source's id whether or not that source is
	// itself stored yet; store order of the source does not matter.
	for _, sourceID := range event.sourceIDs {
		s.downstream[sourceID] = append(s.downstream[sourceID], event.id)
	}

	if s.logger != nil {
		s.logger.Debug("event appended",
			"id", event.id,
			"type", event.eventType,
			"sources", len(event.sourceIDs),
		)
	}

	return s.notifyLocked(event)
}

// notifyLocked fans the event out to every projection in registration order.
// A failing projection does not stop the fan-out and does not undo the
// write; all projection errors are joined and handed to the caller.
func (s *InMemoryEventStore) notifyLocked(event Event) error {
	var errs []error
	for _, p := range s.projections {
		if err := p.Notify(event); err != nil {
			if s.logger != nil {
				s.logger.Warn("projection rejected event",
					"id", event.id,
					"type", event.eventType,
					"error", err,
				)
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *InMemoryEventStore) FindByID(id EventID) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	return event, ok
}

func (s *InMemoryEventStore) DownstreamEvents(root EventID) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.downstream[root]
	result := make([]Event, 0, len(ids))
	for _, id := range ids {
		// Every indexed id was inserted into the primary map in the same
		// critical section, so the lookup cannot miss.
		result = append(result, s.events[id])
	}
	return result
}

func (s *InMemoryEventStore) Register(p Projection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registered[p]; ok {
		return
	}
	s.registered[p] = struct{}{}
	s.projections = append(s.projections, p)
}

func (s *InMemoryEventStore) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Event, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.events[id])
	}
	return result
}

func (s *InMemoryEventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
