package memory

import (
	"context"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// DocumentHandleRepository keeps the dedup cache in process, keyed by
// content hash. Handles never expire here; the hash-to-external-id mapping
// is immutable once minted.
type DocumentHandleRepository struct {
	cache *cache.Cache
}

func NewDocumentHandleRepository() contract.DocumentHandleRepository {
	return &DocumentHandleRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *DocumentHandleRepository) FindByContentHash(_ context.Context, contentHash string) (*entity.DocumentHandle, error) {
	if x, found := r.cache.Get(contentHash); found {
		return x.(*entity.DocumentHandle), nil
	}
	return nil, nil
}

func (r *DocumentHandleRepository) Upsert(_ context.Context, handle *entity.DocumentHandle) error {
	r.cache.Set(handle.ContentHash, handle, cache.NoExpiration)
	return nil
}
