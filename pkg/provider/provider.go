package provider

import (
	"context"
	"io"
	"time"
)

// GenerationRequest carries one generation attempt to the backing model.
// IndexIds are external vector index handles the provider should search;
// ForceRetrieval tells the provider it must consult them before answering.
type GenerationRequest struct {
	SystemPrompt   string
	UserPrompt     string
	IndexIds       []string
	ForceRetrieval bool
}

// GenerationProvider is the text-generation backend.
type GenerationProvider interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Item indexing statuses as reported by the vector index provider.
const (
	ItemStatusCompleted  = "completed"
	ItemStatusInProgress = "in_progress"
	ItemStatusFailed     = "failed"
)

// IndexItem is one piece of content attached to a vector index.
type IndexItem struct {
	ExternalId string
	Status     string
}

// VectorIndexProvider manages external vector indexes.
type VectorIndexProvider interface {
	// CreateIndex creates a new index. A non-zero ttlHint asks the provider
	// to expire the index on its own as a backstop; providers may ignore it.
	CreateIndex(ctx context.Context, name string, ttlHint time.Duration) (string, error)
	ListItems(ctx context.Context, indexId string) ([]IndexItem, error)
	AttachItem(ctx context.Context, indexId, externalId string) error
}

// RegistryFile is a document previously registered with the provider.
type RegistryFile struct {
	ExternalId string
	Name       string
}

// ContentRegistryProvider stores raw document content with the provider.
type ContentRegistryProvider interface {
	Upload(ctx context.Context, r io.Reader, name string) (string, error)
	ListAll(ctx context.Context) ([]RegistryFile, error)
}
