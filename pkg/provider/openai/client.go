package openai

import (
	"errors"
	"fmt"
	"strings"

	"trade-assistant-be/pkg/provider"

	goopenai "github.com/sashabaranov/go-openai"
)

// Client bundles the three provider roles (generation, vector index,
// content registry) over one OpenAI API client.
type Client struct {
	api   *goopenai.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = goopenai.GPT4oMini
	}
	return &Client{
		api:   goopenai.NewClient(apiKey),
		model: model,
	}
}

// classify is the single place OpenAI error shapes are normalized into the
// provider error taxonomy. Nothing outside this package inspects the raw
// API error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *goopenai.APIError
	if !errors.As(err, &apiErr) {
		// Network-level failure, no HTTP response
		return provider.Transient(err)
	}
	switch {
	case apiErr.HTTPStatusCode == 404:
		return fmt.Errorf("%w: %v", provider.ErrNotFound, err)
	case apiErr.HTTPStatusCode == 409 || strings.Contains(strings.ToLower(apiErr.Message), "already attached"):
		return fmt.Errorf("%w: %v", provider.ErrAlreadyAttached, err)
	case apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500:
		return provider.Transient(err)
	default:
		return err
	}
}
