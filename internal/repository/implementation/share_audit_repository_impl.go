package implementation

import (
	"context"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/mapper"
	"trade-assistant-be/internal/model"
	"trade-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShareAuditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ShareAuditMapper
}

func NewShareAuditRepository(db *gorm.DB) contract.ShareAuditRepository {
	return &ShareAuditRepositoryImpl{
		db:     db,
		mapper: mapper.NewShareAuditMapper(),
	}
}

func (r *ShareAuditRepositoryImpl) Create(ctx context.Context, audit *entity.ShareAudit) error {
	m := r.mapper.ToModel(audit)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*audit = *r.mapper.ToEntity(m)
	return nil
}

func (r *ShareAuditRepositoryImpl) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.ShareAudit, error) {
	var models []*model.ShareAudit
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("shared_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.ShareAudit, 0, len(models))
	for _, m := range models {
		out = append(out, r.mapper.ToEntity(m))
	}
	return out, nil
}
