package openai

import (
	"context"
	"io"

	"trade-assistant-be/pkg/provider"

	goopenai "github.com/sashabaranov/go-openai"
)

// Upload stores the document with the Files API under the given stable name.
func (c *Client) Upload(ctx context.Context, r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	file, err := c.api.CreateFileBytes(ctx, goopenai.FileBytesRequest{
		Name:    name,
		Bytes:   data,
		Purpose: goopenai.PurposeAssistants,
	})
	if err != nil {
		return "", classify(err)
	}
	return file.ID, nil
}

// ListAll returns every file registered with the provider. The authoritative
// fallback when the local dedup cache misses.
func (c *Client) ListAll(ctx context.Context) ([]provider.RegistryFile, error) {
	list, err := c.api.ListFiles(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]provider.RegistryFile, 0, len(list.Files))
	for _, f := range list.Files {
		out = append(out, provider.RegistryFile{
			ExternalId: f.ID,
			Name:       f.FileName,
		})
	}
	return out, nil
}
