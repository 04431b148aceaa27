package openai

import (
	"context"
	"time"

	"trade-assistant-be/pkg/provider"

	goopenai "github.com/sashabaranov/go-openai"
)

// CreateIndex creates a vector store. A non-zero ttlHint becomes a
// provider-side expiry anchored on last activity, a backstop for session
// indexes this subsystem abandons rather than deletes.
func (c *Client) CreateIndex(ctx context.Context, name string, ttlHint time.Duration) (string, error) {
	req := goopenai.VectorStoreRequest{Name: name}
	if ttlHint > 0 {
		days := int(ttlHint.Hours()/24) + 1
		req.ExpiresAfter = &goopenai.VectorStoreExpires{
			Anchor: "last_active_at",
			Days:   days,
		}
	}
	store, err := c.api.CreateVectorStore(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	return store.ID, nil
}

// ListItems returns the files attached to a vector store with their
// indexing status.
func (c *Client) ListItems(ctx context.Context, indexId string) ([]provider.IndexItem, error) {
	limit := 100
	list, err := c.api.ListVectorStoreFiles(ctx, indexId, goopenai.Pagination{Limit: &limit})
	if err != nil {
		return nil, classify(err)
	}
	out := make([]provider.IndexItem, 0, len(list.VectorStoreFiles))
	for _, f := range list.VectorStoreFiles {
		out = append(out, provider.IndexItem{
			ExternalId: f.ID,
			Status:     string(f.Status),
		})
	}
	return out, nil
}

// AttachItem attaches a registered file to a vector store.
func (c *Client) AttachItem(ctx context.Context, indexId, externalId string) error {
	_, err := c.api.CreateVectorStoreFile(ctx, indexId, goopenai.VectorStoreFileRequest{
		FileID: externalId,
	})
	return classify(err)
}
