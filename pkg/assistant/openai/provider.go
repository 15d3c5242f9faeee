package openai

import (
	"context"
	"fmt"

	"strategy-buddy-be/pkg/assistant"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the assistant contract on the OpenAI Assistants
// API: conversations are threads, jobs are runs.
type OpenAIProvider struct {
	client *openai.Client
}

var _ assistant.Provider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) CreateConversation(ctx context.Context) (string, error) {
	thread, err := p.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

func (p *OpenAIProvider) AppendUserMessage(ctx context.Context, conversationID, content string) error {
	_, err := p.client.CreateMessage(ctx, conversationID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (p *OpenAIProvider) StartJob(ctx context.Context, conversationID, assistantID string) (string, error) {
	run, err := p.client.CreateRun(ctx, conversationID, openai.RunRequest{
		AssistantID: assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return run.ID, nil
}

func (p *OpenAIProvider) JobStatus(ctx context.Context, conversationID, jobID string) (assistant.JobStatus, error) {
	run, err := p.client.RetrieveRun(ctx, conversationID, jobID)
	if err != nil {
		return "", fmt.Errorf("retrieve run: %w", err)
	}
	return assistant.JobStatus(run.Status), nil
}

func (p *OpenAIProvider) LatestMessageText(ctx context.Context, conversationID string) (string, bool, error) {
	// Default list order is newest first.
	list, err := p.client.ListMessage(ctx, conversationID, nil, nil, nil, nil)
	if err != nil {
		return "", false, fmt.Errorf("list messages: %w", err)
	}
	if len(list.Messages) == 0 {
		return "", false, nil
	}

	for _, content := range list.Messages[0].Content {
		if content.Type == "text" && content.Text != nil {
			return content.Text.Value, true, nil
		}
	}
	return "", false, nil
}
