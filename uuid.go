package eslgo

import "github.com/google/uuid"

// newUUID mints a random identifier, used for Job-UUIDs, Originate call
// UUIDs, and Listener connection tags whenever a caller doesn't supply one.
func newUUID() string {
	return uuid.New().String()
}
