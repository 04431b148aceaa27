package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ShareAudit struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	StableName string         `gorm:"type:varchar(512);not null"`
	ExternalId string         `gorm:"type:varchar(128);not null"`
	FileName   string         `gorm:"type:varchar(255);not null"`
	LibraryIds datatypes.JSON `gorm:"type:jsonb"`
	SharedAt   time.Time      `gorm:"autoCreateTime"`
}

func (ShareAudit) TableName() string {
	return "share_audits"
}
