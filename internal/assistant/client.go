package assistant

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

const (
	completionModel     = openai.GPT3Dot5Turbo
	completionMaxTokens = 250
	completionTemp      = 0.7
)

// ChatClient is the language model behind the assistant
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient calls the OpenAI chat completion API
type OpenAIClient struct {
	client *openai.Client
}

var _ ChatClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a chat client. Returns nil when no API key is
// configured, which puts the assistant in fallback mode.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}
	return &OpenAIClient{client: openai.NewClient(apiKey)}
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       completionModel,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemp,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
