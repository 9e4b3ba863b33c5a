package user_directory

import (
	"fmt"
	"strings"

	"github.com/jtomasevic/eventlog/pkg/event_log"
)

const (
	UserRegistered  event_log.EventType = "userRegistered"
	UserNameChanged event_log.EventType = "userNameChanged"
)

// User is a directory entry, keyed by the business user id (not the event
// id).
type User struct {
	UserID    string
	FirstName string
}

// UserProjection maintains a user directory derived from userRegistered and
// userNameChanged events. All other event types are ignored. The directory
// can always be discarded and rebuilt by replaying the store.
type UserProjection struct {
	usersByID map[string]User
}

func NewUserProjection() *UserProjection {
	return &UserProjection{
		usersByID: make(map[string]User),
	}
}

func (p *UserProjection) Notify(event event_log.Event) error {
	switch event.EventType() {
	case UserRegistered:
		return p.handleUserRegistered(event)
	case UserNameChanged:
		return p.handleUserNameChanged(event)
	default:
		return nil
	}
}

// FindByID looks a user up by business id.
func (p *UserProjection) FindByID(userID string) (User, bool) {
	user, ok := p.usersByID[userID]
	return user, ok
}

func (p *UserProjection) Len() int {
	return len(p.usersByID)
}

func (p *UserProjection) handleUserRegistered(event event_log.Event) error {
	userID, firstName, err := userFields(event)
	if err != nil {
		return err
	}
	p.usersByID[userID] = User{UserID: userID, FirstName: firstName}
	return nil
}

func (p *UserProjection) handleUserNameChanged(event event_log.Event) error {
	userID, firstName, err := userFields(event)
	if err != nil {
		return err
	}
	user, ok := p.usersByID[userID]
	if !ok {
		return fmt.Errorf("%w: %s names unknown user %q",
			event_log.ErrMalformedEventBody, UserNameChanged, userID)
	}
	user.FirstName = firstName
	p.usersByID[userID] = user
	return nil
}

// userFields extracts the required userid and firstName strings, failing
// with ErrMalformedEventBody when the body is not an object or either field
// is missing or blank. Nothing is written to the directory on failure.
func userFields(event event_log.Event) (userID, firstName string, err error) {
	body, ok := event.Body().(map[string]any)
	if !ok {
		return "", "", fmt.Errorf("%w: %s body must be an object",
			event_log.ErrMalformedEventBody, event.EventType())
	}

	userID, err = requiredString(body, "userid", event.EventType())
	if err != nil {
		return "", "", err
	}
	firstName, err = requiredString(body, "firstName", event.EventType())
	if err != nil {
		return "", "", err
	}
	return userID, firstName, nil
}

func requiredString(body map[string]any, key string, eventType event_log.EventType) (string, error) {
	value, ok := body[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s body must have a non-empty %q",
			event_log.ErrMalformedEventBody, eventType, key)
	}
	return value, nil
}
