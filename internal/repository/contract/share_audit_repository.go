package contract

import (
	"context"

	"trade-assistant-be/internal/entity"

	"github.com/google/uuid"
)

type ShareAuditRepository interface {
	Create(ctx context.Context, audit *entity.ShareAudit) error
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.ShareAudit, error)
}
