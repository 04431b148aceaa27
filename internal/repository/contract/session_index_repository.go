package contract

import (
	"context"

	"trade-assistant-be/internal/entity"
)

// SessionIndexRepository stores the per-scope pointer to the live session
// index. Put overwrites unconditionally; racing writers are tolerated
// because each caller keeps using the index id it fetched locally.
type SessionIndexRepository interface {
	Find(ctx context.Context, scopeKey string) (*entity.SessionIndex, error)
	Put(ctx context.Context, index *entity.SessionIndex) error
}
