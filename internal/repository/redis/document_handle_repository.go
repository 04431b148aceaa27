package redis

import (
	"context"
	"encoding/json"
	"errors"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/repository/contract"

	goredis "github.com/redis/go-redis/v9"
)

const documentKeyPrefix = "assistant:doc:"

// DocumentHandleRepository backs the dedup cache with Redis so multiple
// instances share one hash-to-external-id mapping, keyed by content hash.
// SET is already last-write-wins, which is all the upsert contract asks for.
type DocumentHandleRepository struct {
	rdb *goredis.Client
}

func NewDocumentHandleRepository(rdb *goredis.Client) contract.DocumentHandleRepository {
	return &DocumentHandleRepository{rdb: rdb}
}

func (r *DocumentHandleRepository) FindByContentHash(ctx context.Context, contentHash string) (*entity.DocumentHandle, error) {
	data, err := r.rdb.Get(ctx, documentKeyPrefix+contentHash).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var handle entity.DocumentHandle
	if err := json.Unmarshal(data, &handle); err != nil {
		return nil, err
	}
	return &handle, nil
}

func (r *DocumentHandleRepository) Upsert(ctx context.Context, handle *entity.DocumentHandle) error {
	data, err := json.Marshal(handle)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, documentKeyPrefix+handle.ContentHash, data, 0).Err()
}
