package event_log

// Projection is a read model built entirely from event notifications.
//
// A projection receives events one at a time, synchronously, in store order.
// It must:
//   - silently ignore events whose type it does not recognize (return nil),
//   - be deterministic: replaying the same event sequence from empty state
//     always reconstructs the same derived state, so a projection may be
//     wiped and rehydrated from the store at any time,
//   - fail with an error wrapping ErrMalformedEventBody when it recognizes
//     the event type but the body lacks required fields, leaving no partial
//     state behind.
//
// Notify runs inside the store's append critical section, so it is expected
// to be fast and non-blocking. Replaying history into a freshly registered
// projection is the caller's job: feed EventStore.Events() through Notify in
// order before new appends arrive; the store does not replay on Register.
type Projection interface {
	Notify(event Event) error
}
