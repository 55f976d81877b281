package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "ministral-3:latest"
	defaultOpenAIModel = "gpt-4o-mini"
	// Transcripts longer than this are summarized chunk by chunk, the way
	// a sequence-to-sequence summarizer walks a long input.
	maxChunkChars = 60_000
	// Hard ceiling on how much of a transcript is ever sent.
	maxTranscriptChars = 600_000
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// Provider names accepted in Config.Provider.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config describes how to build an LLM client.
type Config struct {
	Provider   string
	Model      string
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// Client turns a transcript into newline-separated summary points.
type Client interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	Name() string
}

// New builds the client named by cfg.Provider. Empty fields fall back to the
// provider's defaults.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOllama:
		host := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
		if host == "" {
			host = defaultOllamaHost
		}
		model := cfg.Model
		if model == "" {
			model = defaultOllamaModel
		}
		return &ollamaClient{
			host:   host,
			model:  model,
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	case ProviderOpenAI:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return newOpenAIClient(cfg.APIKey, model, cfg.Endpoint, pickHTTPClient(cfg.HTTPClient)), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Allow longer-running generations (Ollama often needs >60s) and rely on the caller's context for cancellation.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}

// summarizeChunks runs generate over each chunk of transcript and joins the
// normalised points of every chunk with newlines.
func summarizeChunks(ctx context.Context, transcript string, generate func(context.Context, string) (string, error)) (string, error) {
	chunks := chunkTranscript(transcript, maxChunkChars)
	if len(chunks) == 0 {
		return "", fmt.Errorf("transcript empty; cannot summarize")
	}
	var points []string
	for i, chunk := range chunks {
		raw, err := generate(ctx, buildSummaryPrompt(chunk, i+1, len(chunks)))
		if err != nil {
			return "", err
		}
		points = append(points, normalizeSummary(raw)...)
	}
	if len(points) == 0 {
		return "", fmt.Errorf("model returned no summary points")
	}
	return strings.Join(points, "\n"), nil
}
