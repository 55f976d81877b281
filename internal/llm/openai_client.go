package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const systemPrompt = "You are a concise assistant that summarizes podcast transcripts."

type openAIClient struct {
	model  string
	client openai.Client
}

func newOpenAIClient(apiKey, model, endpoint string, httpClient *http.Client) *openAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(httpClient),
	}
	if base := strings.TrimRight(strings.TrimSpace(endpoint), "/"); base != "" {
		opts = append(opts, option.WithBaseURL(base+"/"))
	}
	return &openAIClient{model: model, client: openai.NewClient(opts...)}
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.model)
}

func (c *openAIClient) Summarize(ctx context.Context, transcript string) (string, error) {
	return summarizeChunks(ctx, transcript, c.chat)
}

func (c *openAIClient) chat(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
