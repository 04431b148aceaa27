package mapper

import (
	"encoding/json"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/model"
)

type ShareAuditMapper struct{}

func NewShareAuditMapper() *ShareAuditMapper {
	return &ShareAuditMapper{}
}

func (m *ShareAuditMapper) ToEntity(a *model.ShareAudit) *entity.ShareAudit {
	if a == nil {
		return nil
	}
	var libs []string
	if len(a.LibraryIds) > 0 {
		// Ignore malformed rows; audit reads are best effort
		_ = json.Unmarshal(a.LibraryIds, &libs)
	}
	return &entity.ShareAudit{
		Id:         a.Id,
		UserId:     a.UserId,
		StableName: a.StableName,
		ExternalId: a.ExternalId,
		FileName:   a.FileName,
		LibraryIds: libs,
		SharedAt:   a.SharedAt,
	}
}

func (m *ShareAuditMapper) ToModel(a *entity.ShareAudit) *model.ShareAudit {
	if a == nil {
		return nil
	}
	libs, _ := json.Marshal(a.LibraryIds)
	return &model.ShareAudit{
		Id:         a.Id,
		UserId:     a.UserId,
		StableName: a.StableName,
		ExternalId: a.ExternalId,
		FileName:   a.FileName,
		LibraryIds: libs,
		SharedAt:   a.SharedAt,
	}
}
