package mapper

import (
	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/model"
)

type DocumentHandleMapper struct{}

func NewDocumentHandleMapper() *DocumentHandleMapper {
	return &DocumentHandleMapper{}
}

func (m *DocumentHandleMapper) ToEntity(d *model.DocumentHandle) *entity.DocumentHandle {
	if d == nil {
		return nil
	}
	return &entity.DocumentHandle{
		StableName:   d.StableName,
		ContentHash:  d.ContentHash,
		ExternalId:   d.ExternalId,
		OriginalName: d.OriginalName,
		SizeBytes:    d.SizeBytes,
		RegisteredAt: d.RegisteredAt,
	}
}

func (m *DocumentHandleMapper) ToModel(d *entity.DocumentHandle) *model.DocumentHandle {
	if d == nil {
		return nil
	}
	return &model.DocumentHandle{
		StableName:   d.StableName,
		ContentHash:  d.ContentHash,
		ExternalId:   d.ExternalId,
		OriginalName: d.OriginalName,
		SizeBytes:    d.SizeBytes,
		RegisteredAt: d.RegisteredAt,
	}
}
