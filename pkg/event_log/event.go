package event_log

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

type EventID = uuid.UUID
type EventType = string

// Body is the opaque payload of an event: an arbitrary JSON-shaped tree
// (map[string]any, []any, or a scalar). The store never interprets it;
// only projections do, keyed by the event's type.
type Body = any

// Event is an immutable record of something that happened.
// Once constructed, no field can change. Events are connected into a DAG
// through their source ids: an event records WHICH events caused it, by
// identity, never by live reference.
//
// All fields are unexported on purpose. The accessors return copies where
// the underlying value is mutable, so no caller can inject or remove causal
// links, or rewrite a body, after construction.
type Event struct {
	id         EventID
	eventType  EventType
	recordedAt time.Time
	body       Body
	sourceIDs  []EventID
}

// NewEvent constructs an event of the given type with the given body.
// The id and recorded-at timestamp are assigned here and are not
// caller-supplied. Sources are optional; only their ids are retained,
// in the order given.
//
// An empty eventType fails with ErrEmptyEventType. A nil body fails with
// ErrNilEventBody; note an explicit empty object (map[string]any{}) is a
// valid body, distinct from no body at all.
func NewEvent(eventType EventType, body Body, sources ...Event) (Event, error) {
	if eventType == "" {
		return Event{}, ErrEmptyEventType
	}
	if body == nil {
		return Event{}, ErrNilEventBody
	}

	sourceIDs := make([]EventID, 0, len(sources))
	for _, s := range sources {
		sourceIDs = append(sourceIDs, s.id)
	}

	return Event{
		id:         uuid.New(),
		eventType:  eventType,
		recordedAt: time.Now(),
		body:       cloneBody(body),
		sourceIDs:  sourceIDs,
	}, nil
}

func (e Event) ID() EventID {
	return e.id
}

func (e Event) EventType() EventType {
	return e.eventType
}

func (e Event) RecordedAt() time.Time {
	return e.recordedAt
}

// Body returns a deep copy of the payload, so the stored tree can never be
// mutated through the returned value.
func (e Event) Body() Body {
	return cloneBody(e.body)
}

// SourceIDs returns the ids of the events this event was derived from, in
// declaration order. The returned slice is a copy.
func (e Event) SourceIDs() []EventID {
	out := make([]EventID, len(e.sourceIDs))
	copy(out, e.sourceIDs)
	return out
}

// IsZero reports whether e is the zero Event, i.e. not built by NewEvent.
func (e Event) IsZero() bool {
	return e.id == uuid.Nil
}

// Equal reports value equality over all fields, identity included.
func (e Event) Equal(other Event) bool {
	if e.id != other.id ||
		e.eventType != other.eventType ||
		!e.recordedAt.Equal(other.recordedAt) ||
		len(e.sourceIDs) != len(other.sourceIDs) {
		return false
	}
	for i := range e.sourceIDs {
		if e.sourceIDs[i] != other.sourceIDs[i] {
			return false
		}
	}
	return reflect.DeepEqual(e.body, other.body)
}

// cloneBody deep-copies a JSON-shaped tree. Scalars are returned as-is;
// maps and slices are copied recursively.
func cloneBody(v Body) Body {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = cloneBody(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = cloneBody(child)
		}
		return out
	default:
		return v
	}
}
