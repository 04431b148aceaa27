package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"trade-assistant-be/internal/config"
	"trade-assistant-be/internal/dto"
	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/internal/pkg/serverutils"
	"trade-assistant-be/pkg/assistant/content"
	"trade-assistant-be/pkg/assistant/orchestrator"
	"trade-assistant-be/pkg/assistant/scope"
	"trade-assistant-be/pkg/assistant/sessionindex"
	"trade-assistant-be/pkg/provider"

	"github.com/google/uuid"
)

// IAssistantService answers domain questions with the provenance contract
// enforced end to end: register uploads, ensure the session index, compose
// scopes, and drive the staged orchestrator.
type IAssistantService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AssistantQueryRequest, files []*multipart.FileHeader) (*dto.AssistantQueryResponse, error)
}

type assistantService struct {
	contentStore *content.Store
	sessions     *sessionindex.Manager
	orchestrator *orchestrator.Orchestrator
	indexes      provider.VectorIndexProvider
	publisher    IPublisherService
	cfg          config.AssistantConfig
	logger       logger.ILogger
}

func NewAssistantService(
	contentStore *content.Store,
	sessions *sessionindex.Manager,
	answerOrchestrator *orchestrator.Orchestrator,
	indexes provider.VectorIndexProvider,
	publisher IPublisherService,
	cfg config.AssistantConfig,
	sysLogger logger.ILogger,
) IAssistantService {
	return &assistantService{
		contentStore: contentStore,
		sessions:     sessions,
		orchestrator: answerOrchestrator,
		indexes:      indexes,
		publisher:    publisher,
		cfg:          cfg,
		logger:       sysLogger,
	}
}

func (as *assistantService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AssistantQueryRequest, files []*multipart.FileHeader) (*dto.AssistantQueryResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, serverutils.NewInputError("please include a question")
	}
	if len(files) > as.cfg.MaxUploadFiles {
		return nil, serverutils.NewInputError(fmt.Sprintf("at most %d files per question", as.cfg.MaxUploadFiles))
	}
	for _, fh := range files {
		if fh.Size > as.cfg.MaxUploadBytes {
			return nil, serverutils.NewInputError(fmt.Sprintf("file %s exceeds the %dMB limit", fh.Filename, as.cfg.MaxUploadBytes/(1024*1024)))
		}
	}

	handles, uploaded, err := as.registerUploads(ctx, files)
	if err != nil {
		return nil, err
	}

	hasUploads := len(handles) > 0
	var sessionIndexId string
	if hasUploads {
		scopeKey := userId.String()
		indexId, err := as.sessions.EnsureIndexFor(ctx, scopeKey, as.cfg.SessionIndexTTL)
		if err != nil {
			return nil, err
		}
		attached, activeId, err := as.sessions.Attach(ctx, scopeKey, as.cfg.SessionIndexTTL, indexId, handles)
		if err != nil {
			return nil, err
		}
		sessionIndexId = activeId
		if len(attached) < len(handles) {
			as.logger.Warn("assistant", "not all uploads indexed in time, answering best effort", map[string]interface{}{
				"user_id":  userId.String(),
				"attached": len(attached),
				"uploads":  len(handles),
			})
		}
	}

	scopes := scope.BuildScopes(sessionIndexId, as.cfg.LibraryStoreIds, hasUploads)
	result, err := as.orchestrator.Answer(ctx, buildUserPrompt(question, req.Trade, req.Brand), scopes, orchestrator.Policy{
		StrictRetrieval:    as.cfg.StrictRetrieval,
		AllowedSourceNames: uploadNames(uploaded),
	})
	if err != nil {
		return nil, err
	}

	if req.ShareWithLibrary && hasUploads {
		as.shareToLibrary(ctx, userId, handles)
	}

	return &dto.AssistantQueryResponse{
		Text:     result.Text,
		Mode:     result.Mode,
		Uploaded: uploaded,
	}, nil
}

func (as *assistantService) registerUploads(ctx context.Context, files []*multipart.FileHeader) ([]*entity.DocumentHandle, []dto.UploadedFileInfo, error) {
	var handles []*entity.DocumentHandle
	var uploaded []dto.UploadedFileInfo
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, nil, serverutils.NewInputError(fmt.Sprintf("could not read file %s", fh.Filename))
		}
		handle, err := as.contentStore.RegisterOrReuse(ctx, src, fh.Filename)
		src.Close()
		if err != nil {
			return nil, nil, err
		}
		handles = append(handles, handle)
		uploaded = append(uploaded, dto.UploadedFileInfo{
			FileName:   fh.Filename,
			ExternalId: handle.ExternalId,
		})
	}
	return handles, uploaded, nil
}

// shareToLibrary honors an explicit opt-in: attach the uploads to the
// curated library indexes and emit the audit event. Best effort; a share
// failure never takes down the answer the user already earned.
func (as *assistantService) shareToLibrary(ctx context.Context, userId uuid.UUID, handles []*entity.DocumentHandle) {
	if len(as.cfg.LibraryStoreIds) == 0 {
		as.logger.Warn("assistant", "share requested but no library indexes configured", nil)
		return
	}
	for _, handle := range handles {
		for _, libraryId := range as.cfg.LibraryStoreIds {
			if err := as.indexes.AttachItem(ctx, libraryId, handle.ExternalId); err != nil && !provider.IsAlreadyAttached(err) {
				as.logger.Warn("assistant", "library attach failed", map[string]interface{}{
					"library_id":  libraryId,
					"external_id": handle.ExternalId,
					"error":       err.Error(),
				})
			}
		}
		msg := &dto.ShareOptInMessage{
			UserId:     userId,
			StableName: handle.StableName,
			ExternalId: handle.ExternalId,
			FileName:   handle.OriginalName,
			LibraryIds: as.cfg.LibraryStoreIds,
			OccurredAt: time.Now(),
		}
		if err := as.publisher.PublishShareOptIn(ctx, msg); err != nil {
			as.logger.Error("assistant", "share audit publish failed", map[string]interface{}{
				"external_id": handle.ExternalId,
				"error":       err.Error(),
			})
		}
	}
}

// uploadNames collects the file names of this request's uploads so the
// grounded scope only accepts citations that point at them.
func uploadNames(uploaded []dto.UploadedFileInfo) []string {
	names := make([]string, 0, len(uploaded))
	for _, u := range uploaded {
		names = append(names, u.FileName)
	}
	return names
}

func buildUserPrompt(question, trade, brand string) string {
	var parts []string
	if trade != "" {
		parts = append(parts, "Trade: "+trade)
	}
	if brand != "" {
		parts = append(parts, "Brand: "+brand)
	}
	parts = append(parts, "Question: "+question)
	return strings.Join(parts, "\n")
}
