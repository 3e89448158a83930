package mqtt

import "fmt"

// TopicPrefix is the root of every Currently topic.
const TopicPrefix = "currently"

// Resource names the kind of record an event is about.
type Resource string

// Event resources.
const (
	ResourceRooms      Resource = "rooms"
	ResourceAppliances Resource = "appliances"
)

// Action names what happened to the record.
type Action string

// Event actions.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Topics builds Currently topic names.
//
//	Topics{}.UserChange("u-1", ResourceRooms, ActionCreated)
//	// currently/users/u-1/rooms/created
type Topics struct{}

// UserChange is where changes to one user's records are published.
func (Topics) UserChange(userID string, resource Resource, action Action) string {
	return fmt.Sprintf("%s/users/%s/%s/%s", TopicPrefix, userID, resource, action)
}

// AllUserChanges matches every change for one user.
func (Topics) AllUserChanges(userID string) string {
	return fmt.Sprintf("%s/users/%s/#", TopicPrefix, userID)
}

// AllChanges matches every change for every user.
func (Topics) AllChanges() string {
	return TopicPrefix + "/users/+/+/+"
}

// SystemStatus carries the server's retained online/offline status.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}
