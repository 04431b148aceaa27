package entity

import "time"

// DocumentHandle maps a document's content hash to the external id the
// provider minted for it. One external id per hash, ever; repeats are
// looked up, never re-uploaded, whatever display name they arrive under.
type DocumentHandle struct {
	StableName   string // "<sha256>-<name>", the provider-side file name
	ContentHash  string // the dedup key
	ExternalId   string
	OriginalName string
	SizeBytes    int64
	RegisteredAt time.Time
}
