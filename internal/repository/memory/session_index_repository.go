package memory

import (
	"context"
	"time"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SessionIndexRepository holds the per-scope session index pointer in
// process. Entries are purged some time after the manager stops refreshing
// them; staleness is still checked against LastUsedAt by the manager, the
// cache TTL is only housekeeping.
type SessionIndexRepository struct {
	cache *cache.Cache
}

func NewSessionIndexRepository() contract.SessionIndexRepository {
	return &SessionIndexRepository{
		cache: cache.New(4*time.Hour, 30*time.Minute),
	}
}

func (r *SessionIndexRepository) Find(_ context.Context, scopeKey string) (*entity.SessionIndex, error) {
	if x, found := r.cache.Get(scopeKey); found {
		return x.(*entity.SessionIndex), nil
	}
	return nil, nil
}

func (r *SessionIndexRepository) Put(_ context.Context, index *entity.SessionIndex) error {
	r.cache.Set(index.ScopeKey, index, cache.DefaultExpiration)
	return nil
}
