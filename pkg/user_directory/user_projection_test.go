package user_directory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jtomasevic/eventlog/pkg/event_log"
)

func mustEvent(t *testing.T, eventType event_log.EventType, body event_log.Body) event_log.Event {
	t.Helper()
	event, err := event_log.NewEvent(eventType, body)
	require.NoError(t, err)
	return event
}

func Test_AfterRegisterUser_CanFindUser(t *testing.T) {
	store := event_log.NewInMemoryEventStore()
	projection := NewUserProjection()
	store.Register(projection)

	registered := mustEvent(t, UserRegistered, map[string]any{
		"userid":    "alice",
		"firstName": "Alice",
	})
	require.NoError(t, store.Append(registered))

	// Delivery is synchronous: the directory reflects the event as soon as
	// Append returns.
	user, ok := projection.FindByID("alice")
	require.True(t, ok)
	require.Equal(t, "alice", user.UserID)
	require.Equal(t, "Alice", user.FirstName)
}

func Test_UnrecognizedEventTypesAreIgnored(t *testing.T) {
	projection := NewUserProjection()

	err := projection.Notify(mustEvent(t, "orderPlaced", map[string]any{"total": 12}))
	require.NoError(t, err)
	require.Equal(t, 0, projection.Len())
}

func Test_UserRegistered_MissingFieldsIsMalformed(t *testing.T) {
	projection := NewUserProjection()

	missingFirstName := mustEvent(t, UserRegistered, map[string]any{
		"userid": "alice",
	})
	err := projection.Notify(missingFirstName)
	require.ErrorIs(t, err, event_log.ErrMalformedEventBody)

	missingUserID := mustEvent(t, UserRegistered, map[string]any{
		"firstName": "Alice",
	})
	err = projection.Notify(missingUserID)
	require.ErrorIs(t, err, event_log.ErrMalformedEventBody)

	blankUserID := mustEvent(t, UserRegistered, map[string]any{
		"userid":    "   ",
		"firstName": "Alice",
	})
	err = projection.Notify(blankUserID)
	require.ErrorIs(t, err, event_log.ErrMalformedEventBody)

	// No partial user record was written.
	require.Equal(t, 0, projection.Len())
	_, ok := projection.FindByID("alice")
	require.False(t, ok)
}

func Test_UserRegistered_BodyMustBeAnObject(t *testing.T) {
	projection := NewUserProjection()

	err := projection.Notify(mustEvent(t, UserRegistered, []any{"alice"}))
	require.ErrorIs(t, err, event_log.ErrMalformedEventBody)
	require.Equal(t, 0, projection.Len())
}

func Test_UserNameChanged_UpdatesExistingUser(t *testing.T) {
	store := event_log.NewInMemoryEventStore()
	projection := NewUserProjection()
	store.Register(projection)

	registered := mustEvent(t, UserRegistered, map[string]any{
		"userid":    "alice",
		"firstName": "Alice",
	})
	require.NoError(t, store.Append(registered))

	renamed, err := event_log.NewEvent(UserNameChanged, map[string]any{
		"userid":    "alice",
		"firstName": "Alicia",
	}, registered)
	require.NoError(t, err)
	require.NoError(t, store.Append(renamed))

	user, ok := projection.FindByID("alice")
	require.True(t, ok)
	require.Equal(t, "Alicia", user.FirstName)
	require.Equal(t, 1, projection.Len())
}

func Test_UserNameChanged_UnknownUserIsMalformed(t *testing.T) {
	projection := NewUserProjection()

	err := projection.Notify(mustEvent(t, UserNameChanged, map[string]any{
		"userid":    "nobody",
		"firstName": "Nobody",
	}))
	require.ErrorIs(t, err, event_log.ErrMalformedEventBody)
	require.Equal(t, 0, projection.Len())
}

func Test_Rehydration_ReplayRebuildsTheSameState(t *testing.T) {
	store := event_log.NewInMemoryEventStore()
	live := NewUserProjection()
	store.Register(live)

	require.NoError(t, store.Append(mustEvent(t, UserRegistered, map[string]any{
		"userid": "alice", "firstName": "Alice",
	})))
	require.NoError(t, store.Append(mustEvent(t, UserRegistered, map[string]any{
		"userid": "bob", "firstName": "Bob",
	})))
	require.NoError(t, store.Append(mustEvent(t, UserNameChanged, map[string]any{
		"userid": "alice", "firstName": "Alicia",
	})))
	require.NoError(t, store.Append(mustEvent(t, "orderPlaced", map[string]any{})))

	// A wiped projection fed the same history in store order converges to
	// the same directory.
	rebuilt := NewUserProjection()
	for _, event := range store.Events() {
		require.NoError(t, rebuilt.Notify(event))
	}

	require.Equal(t, live.Len(), rebuilt.Len())
	for _, id := range []string{"alice", "bob"} {
		fromLive, ok := live.FindByID(id)
		require.True(t, ok)
		fromRebuilt, ok := rebuilt.FindByID(id)
		require.True(t, ok)
		require.Equal(t, fromLive, fromRebuilt)
	}
}
