package dto

import (
	"time"

	"github.com/google/uuid"
)

// ShareOptInMessage is the wire shape of a library-share opt-in event on
// the internal bus.
type ShareOptInMessage struct {
	UserId     uuid.UUID `json:"user_id"`
	StableName string    `json:"stable_name"`
	ExternalId string    `json:"external_id"`
	FileName   string    `json:"file_name"`
	LibraryIds []string  `json:"library_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}
