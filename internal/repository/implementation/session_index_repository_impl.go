package implementation

import (
	"context"
	"errors"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/mapper"
	"trade-assistant-be/internal/model"
	"trade-assistant-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionIndexRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionIndexMapper
}

func NewSessionIndexRepository(db *gorm.DB) contract.SessionIndexRepository {
	return &SessionIndexRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionIndexMapper(),
	}
}

func (r *SessionIndexRepositoryImpl) Find(ctx context.Context, scopeKey string) (*entity.SessionIndex, error) {
	var m model.SessionIndex
	if err := r.db.WithContext(ctx).Where("scope_key = ?", scopeKey).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionIndexRepositoryImpl) Put(ctx context.Context, index *entity.SessionIndex) error {
	m := r.mapper.ToModel(index)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope_key"}},
			UpdateAll: true,
		}).
		Create(m).Error
}
