package event_log

// EventStore is the authoritative, append-only collection of all events.
// Events are never updated or deleted; the store is the single uniqueness
// authority for event ids and the only mutation path for the causal index
// and the projection registry.
type EventStore interface {

	// Append stores the event, records it as downstream of each of its
	// source ids, then synchronously notifies every registered projection,
	// in registration order.
	//
	// Append fails with ErrDuplicateEvent when the id is already stored and
	// with ErrNotStorable for a zero Event; in both cases nothing changes
	// and no projection is notified. Projection failures do NOT undo the
	// write: the event stays stored, remaining projections are still
	// notified, and the joined projection errors are returned to the
	// caller.
	Append(event Event) error

	// FindByID returns the event with that id. Absence is a normal outcome,
	// reported through the second return, never an error.
	FindByID(id EventID) (Event, bool)

	// DownstreamEvents returns the events that declared root as one of
	// their sources, in the order they were appended. The result is empty,
	// never a fault, when there are none - whether or not root itself is
	// stored.
	DownstreamEvents(root EventID) []Event

	// Register adds a projection to the notification set. Registering the
	// same instance again is a no-op; a projection is notified at most once
	// per append.
	Register(p Projection)

	// Events returns all stored events in append order. This is the feed a
	// caller replays into a fresh projection to rehydrate it.
	Events() []Event

	// Len returns the number of stored events.
	Len() int
}
