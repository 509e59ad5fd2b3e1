package agent

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator calls an OpenAI-compatible chat completion API. DeepSeek and
// similar providers work through the same wire format via a custom base URL.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator constructs a generator for the given credentials. An
// empty baseURL targets the OpenAI API; an empty model falls back to a small
// default.
func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Generate sends a single-prompt chat completion and returns the model reply.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", errors.New("openai client not initialized")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
