package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Summaries are capped at 300 words downstream; 500 tokens is headroom.
const maxSummaryTokens = 500

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

func (c *OpenAIClient) Complete(prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Model:     c.model,
		MaxTokens: openai.Int(maxSummaryTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analystSystemPrompt),
			openai.UserMessage(prompt),
		},
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) Probe() error {
	_, err := c.client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Model:     c.model,
		MaxTokens: openai.Int(10),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("Test"),
		},
	})
	if err != nil {
		return fmt.Errorf("openai connection test: %w", err)
	}
	return nil
}
