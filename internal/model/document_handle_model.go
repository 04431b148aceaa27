package model

import (
	"time"
)

type DocumentHandle struct {
	ContentHash  string    `gorm:"type:varchar(64);primaryKey"`
	StableName   string    `gorm:"type:varchar(512);not null"`
	ExternalId   string    `gorm:"type:varchar(128);not null"`
	OriginalName string    `gorm:"type:varchar(255);not null"`
	SizeBytes    int64     `gorm:"not null"`
	RegisteredAt time.Time `gorm:"autoCreateTime"`
}

func (DocumentHandle) TableName() string {
	return "document_handles"
}
