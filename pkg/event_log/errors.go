package event_log

import "errors"

var (
	// ErrEmptyEventType is returned by NewEvent when the event type is empty.
	ErrEmptyEventType = errors.New("event type must not be empty")

	// ErrNilEventBody is returned by NewEvent when no body is given.
	ErrNilEventBody = errors.New("event body must not be nil")

	// ErrDuplicateEvent is returned by Append when an event with the same id
	// is already stored. The store is left exactly as it was.
	ErrDuplicateEvent = errors.New("event is already stored")

	// ErrNotStorable is returned by Append for a zero Event, i.e. one that
	// was not built through NewEvent.
	ErrNotStorable = errors.New("event was not constructed with NewEvent")

	// ErrMalformedEventBody is reported by a projection when it recognizes
	// the event type but the body lacks required fields. Projections wrap it
	// with detail; match with errors.Is.
	ErrMalformedEventBody = errors.New("malformed event body")
)
