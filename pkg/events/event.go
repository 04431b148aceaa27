package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "LIBRARY_SHARE_OPTIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used when reconstructing events
// off the wire.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Assistant event types.
const (
	TypeLibraryShareOptIn = "LIBRARY_SHARE_OPTIN"
)

// LibraryShareOptIn records a user's explicit choice to share an upload
// into the curated library. Published on every honored opt-in so sharing
// stays auditable.
type LibraryShareOptIn struct {
	UserId     uuid.UUID
	StableName string
	ExternalId string
	FileName   string
	LibraryIds []string
	OccurredAt time.Time
}

func (e LibraryShareOptIn) EventType() string {
	return TypeLibraryShareOptIn
}

func (e LibraryShareOptIn) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":     e.UserId.String(),
		"stable_name": e.StableName,
		"external_id": e.ExternalId,
		"file_name":   e.FileName,
		"library_ids": e.LibraryIds,
		"occurred_at": e.OccurredAt.Format(time.RFC3339),
	}
}

func (e LibraryShareOptIn) Timestamp() time.Time {
	return e.OccurredAt
}
