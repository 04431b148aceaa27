package model

import (
	"time"
)

type SessionIndex struct {
	ScopeKey   string    `gorm:"type:varchar(128);primaryKey"`
	IndexId    string    `gorm:"type:varchar(128);not null"`
	LastUsedAt time.Time `gorm:"not null"`
}

func (SessionIndex) TableName() string {
	return "session_indexes"
}
