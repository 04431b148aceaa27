package mapper

import (
	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/model"
)

type SessionIndexMapper struct{}

func NewSessionIndexMapper() *SessionIndexMapper {
	return &SessionIndexMapper{}
}

func (m *SessionIndexMapper) ToEntity(s *model.SessionIndex) *entity.SessionIndex {
	if s == nil {
		return nil
	}
	return &entity.SessionIndex{
		ScopeKey:   s.ScopeKey,
		IndexId:    s.IndexId,
		LastUsedAt: s.LastUsedAt,
	}
}

func (m *SessionIndexMapper) ToModel(s *entity.SessionIndex) *model.SessionIndex {
	if s == nil {
		return nil
	}
	return &model.SessionIndex{
		ScopeKey:   s.ScopeKey,
		IndexId:    s.IndexId,
		LastUsedAt: s.LastUsedAt,
	}
}
