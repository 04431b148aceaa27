package entity

import (
	"time"

	"github.com/google/uuid"
)

// ShareAudit records an explicit user opt-in to share an uploaded document
// into the curated library. Sharing is never implied; every row here maps to
// a request where share_with_library was set.
type ShareAudit struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	StableName string
	ExternalId string
	FileName   string
	LibraryIds []string
	SharedAt   time.Time
}
