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

type DocumentHandleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentHandleMapper
}

func NewDocumentHandleRepository(db *gorm.DB) contract.DocumentHandleRepository {
	return &DocumentHandleRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentHandleMapper(),
	}
}

func (r *DocumentHandleRepositoryImpl) FindByContentHash(ctx context.Context, contentHash string) (*entity.DocumentHandle, error) {
	var m model.DocumentHandle
	if err := r.db.WithContext(ctx).Where("content_hash = ?", contentHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentHandleRepositoryImpl) Upsert(ctx context.Context, handle *entity.DocumentHandle) error {
	m := r.mapper.ToModel(handle)
	// ON CONFLICT keeps concurrent duplicate registrations from erroring out
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_hash"}},
			UpdateAll: true,
		}).
		Create(m).Error
}
