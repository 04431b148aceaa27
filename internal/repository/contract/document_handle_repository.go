package contract

import (
	"context"

	"trade-assistant-be/internal/entity"
)

// DocumentHandleRepository is the dedup cache behind the content store.
// Identity is the content hash alone; the display name is metadata. All
// writes are upserts keyed by hash, and concurrent duplicate registrations
// must not error (last write wins).
type DocumentHandleRepository interface {
	FindByContentHash(ctx context.Context, contentHash string) (*entity.DocumentHandle, error)
	Upsert(ctx context.Context, handle *entity.DocumentHandle) error
}
