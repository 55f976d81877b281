package llm

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultTranscriptionModel = openai.AudioModelWhisper1

// TranscriberConfig points at an OpenAI-compatible /audio/transcriptions API,
// such as OpenAI itself or a local whisper server. An empty Endpoint uses OpenAI.
type TranscriberConfig struct {
	Endpoint   string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// Transcriber turns speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type whisperClient struct {
	model  string
	client openai.Client
}

// NewTranscriber returns a Transcriber for cfg.
func NewTranscriber(cfg TranscriberConfig) Transcriber {
	model := cfg.Model
	if model == "" {
		model = defaultTranscriptionModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(pickHTTPClient(cfg.HTTPClient)),
	}
	if base := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"); base != "" {
		opts = append(opts, option.WithBaseURL(base+"/"))
	}
	return &whisperClient{model: model, client: openai.NewClient(opts...)}
}

func (c *whisperClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	name := filepath.Base(filename)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	res, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           openai.File(audio, name, contentType),
		Model:          c.model,
		ResponseFormat: openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcription API error: %w", err)
	}
	return strings.TrimSpace(res.Text), nil
}
