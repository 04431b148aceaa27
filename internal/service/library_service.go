package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"trade-assistant-be/internal/config"
	"trade-assistant-be/internal/dto"
	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/internal/pkg/serverutils"
	"trade-assistant-be/pkg/assistant/content"
	"trade-assistant-be/pkg/assistant/sessionindex"
	"trade-assistant-be/pkg/provider"
)

// ILibraryService curates the shared document library. Admin-only; the
// library indexes themselves are configured externally and read-only to
// the assistant flow.
type ILibraryService interface {
	Ingest(ctx context.Context, files []*multipart.FileHeader) (*dto.LibraryIngestResponse, error)
	ListFiles(ctx context.Context) ([]*dto.LibraryFileResponse, error)
}

type libraryService struct {
	contentStore *content.Store
	sessions     *sessionindex.Manager
	indexes      provider.VectorIndexProvider
	registry     provider.ContentRegistryProvider
	cfg          config.AssistantConfig
	logger       logger.ILogger
}

func NewLibraryService(
	contentStore *content.Store,
	sessions *sessionindex.Manager,
	indexes provider.VectorIndexProvider,
	registry provider.ContentRegistryProvider,
	cfg config.AssistantConfig,
	sysLogger logger.ILogger,
) ILibraryService {
	return &libraryService{
		contentStore: contentStore,
		sessions:     sessions,
		indexes:      indexes,
		registry:     registry,
		cfg:          cfg,
		logger:       sysLogger,
	}
}

func (ls *libraryService) Ingest(ctx context.Context, files []*multipart.FileHeader) (*dto.LibraryIngestResponse, error) {
	if len(files) == 0 {
		return nil, serverutils.NewInputError("no files provided")
	}
	if len(ls.cfg.LibraryStoreIds) == 0 {
		return nil, fmt.Errorf("no library indexes configured")
	}

	var ingested []dto.UploadedFileInfo
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, serverutils.NewInputError(fmt.Sprintf("could not read file %s", fh.Filename))
		}
		handle, err := ls.contentStore.RegisterOrReuse(ctx, src, fh.Filename)
		src.Close()
		if err != nil {
			return nil, err
		}

		for _, libraryId := range ls.cfg.LibraryStoreIds {
			if err := ls.indexes.AttachItem(ctx, libraryId, handle.ExternalId); err != nil {
				if provider.IsAlreadyAttached(err) {
					continue
				}
				return nil, err
			}
			// Readiness wait is best effort; a slow index does not fail ingest
			ls.sessions.WaitForIndexed(ctx, libraryId, []string{handle.ExternalId})
		}

		ingested = append(ingested, dto.UploadedFileInfo{
			FileName:   fh.Filename,
			ExternalId: handle.ExternalId,
		})
	}

	return &dto.LibraryIngestResponse{
		Files:      ingested,
		LibraryIds: ls.cfg.LibraryStoreIds,
	}, nil
}

func (ls *libraryService) ListFiles(ctx context.Context) ([]*dto.LibraryFileResponse, error) {
	registered, err := ls.registry.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(registered))
	for _, f := range registered {
		names[f.ExternalId] = f.Name
	}

	var out []*dto.LibraryFileResponse
	for _, libraryId := range ls.cfg.LibraryStoreIds {
		items, err := ls.indexes.ListItems(ctx, libraryId)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			out = append(out, &dto.LibraryFileResponse{
				ExternalId: item.ExternalId,
				Name:       names[item.ExternalId],
				IndexId:    libraryId,
				Status:     item.Status,
			})
		}
	}
	return out, nil
}
