package openai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"trade-assistant-be/pkg/provider"

	goopenai "github.com/sashabaranov/go-openai"
)

const runPollInterval = 500 * time.Millisecond

var assistantName = "grounded-retrieval-assistant"

type assistantState struct {
	mu sync.Mutex
	id string
}

var sharedAssistant assistantState

// Generate answers one prompt. With index handles present the call goes
// through the Assistants API so file_search can consult the attached vector
// stores; without handles it is a plain chat completion.
func (c *Client) Generate(ctx context.Context, req provider.GenerationRequest) (string, error) {
	if len(req.IndexIds) == 0 {
		return c.generateChat(ctx, req)
	}
	return c.generateWithRetrieval(ctx, req)
}

func (c *Client) generateChat(ctx context.Context, req provider.GenerationRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) generateWithRetrieval(ctx context.Context, req provider.GenerationRequest) (string, error) {
	assistantId, err := c.ensureAssistant(ctx)
	if err != nil {
		return "", err
	}

	thread, err := c.api.CreateThread(ctx, goopenai.ThreadRequest{
		Messages: []goopenai.ThreadMessage{
			{Role: goopenai.ThreadMessageRoleUser, Content: req.UserPrompt},
		},
		ToolResources: &goopenai.ToolResourcesRequest{
			FileSearch: &goopenai.FileSearchToolResourcesRequest{
				VectorStoreIDs: req.IndexIds,
			},
		},
	})
	if err != nil {
		return "", classify(err)
	}

	runReq := goopenai.RunRequest{
		AssistantID:  assistantId,
		Instructions: req.SystemPrompt,
	}
	if req.ForceRetrieval {
		runReq.ToolChoice = map[string]any{"type": "file_search"}
	}
	run, err := c.api.CreateRun(ctx, thread.ID, runReq)
	if err != nil {
		return "", classify(err)
	}

	run, err = c.waitForRun(ctx, thread.ID, run.ID)
	if err != nil {
		return "", err
	}

	return c.readRunAnswer(ctx, thread.ID, run.ID)
}

func (c *Client) waitForRun(ctx context.Context, threadId, runId string) (goopenai.Run, error) {
	for {
		run, err := c.api.RetrieveRun(ctx, threadId, runId)
		if err != nil {
			return goopenai.Run{}, classify(err)
		}
		switch run.Status {
		case goopenai.RunStatusCompleted:
			return run, nil
		case goopenai.RunStatusFailed, goopenai.RunStatusExpired, goopenai.RunStatusCancelled:
			if run.LastError != nil {
				return goopenai.Run{}, fmt.Errorf("run %s: %s (%s)", run.Status, run.LastError.Message, run.LastError.Code)
			}
			return goopenai.Run{}, fmt.Errorf("run ended with status %s", run.Status)
		}
		select {
		case <-ctx.Done():
			return goopenai.Run{}, ctx.Err()
		case <-time.After(runPollInterval):
		}
	}
}

func (c *Client) readRunAnswer(ctx context.Context, threadId, runId string) (string, error) {
	limit := 1
	order := "desc"
	msgs, err := c.api.ListMessage(ctx, threadId, &limit, &order, nil, nil, &runId)
	if err != nil {
		return "", classify(err)
	}
	var parts []string
	for _, m := range msgs.Messages {
		for _, content := range m.Content {
			if content.Text != nil {
				parts = append(parts, content.Text.Value)
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("run produced no text output")
	}
	return strings.Join(parts, "\n"), nil
}

func (c *Client) ensureAssistant(ctx context.Context) (string, error) {
	sharedAssistant.mu.Lock()
	defer sharedAssistant.mu.Unlock()
	if sharedAssistant.id != "" {
		return sharedAssistant.id, nil
	}
	assistant, err := c.api.CreateAssistant(ctx, goopenai.AssistantRequest{
		Model: c.model,
		Name:  &assistantName,
		Tools: []goopenai.AssistantTool{
			{Type: goopenai.AssistantToolTypeFileSearch},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	sharedAssistant.id = assistant.ID
	return sharedAssistant.id, nil
}
