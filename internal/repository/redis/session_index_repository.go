package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/repository/contract"

	goredis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "assistant:session:"

// SessionIndexRepository shares the per-scope session pointer across
// instances. The Redis TTL is housekeeping only; the manager still compares
// LastUsedAt against its own ttl before reusing an index.
type SessionIndexRepository struct {
	rdb       *goredis.Client
	retention time.Duration
}

func NewSessionIndexRepository(rdb *goredis.Client) contract.SessionIndexRepository {
	return &SessionIndexRepository{
		rdb:       rdb,
		retention: 4 * time.Hour,
	}
}

func (r *SessionIndexRepository) Find(ctx context.Context, scopeKey string) (*entity.SessionIndex, error) {
	data, err := r.rdb.Get(ctx, sessionKeyPrefix+scopeKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var index entity.SessionIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, err
	}
	return &index, nil
}

func (r *SessionIndexRepository) Put(ctx context.Context, index *entity.SessionIndex) error {
	data, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKeyPrefix+index.ScopeKey, data, r.retention).Err()
}
