package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/podsum/internal/media"
)

const (
	// DefaultEndpoint matches the server's default listen address.
	DefaultEndpoint = "http://localhost:5000/summarize"

	maxResponseBytes = 4 << 20
	errorBodyPreview = 512
)

// Config describes how to reach the summarization endpoint.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client posts files or transcripts to POST /summarize.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// New returns a Client. Timeouts are left to the caller's context.
func New(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{endpoint: endpoint, client: client, logger: logger}
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SummarizeFile uploads the file as the multipart field "file".
func (c *Client) SummarizeFile(ctx context.Context, file media.File) ([]string, error) {
	body, contentType, err := multipartBody(file)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, zap.String("file", file.Name), zap.Int64("size", file.Size))
}

// SummarizeTranscript posts {"transcript": text} as JSON.
func (c *Client) SummarizeTranscript(ctx context.Context, transcript string) ([]string, error) {
	payload, err := json.Marshal(map[string]string{"transcript": transcript})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, zap.Int("transcript_chars", len(transcript)))
}

func multipartBody(file media.File) (io.Reader, string, error) {
	src, err := os.Open(file.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, io.LimitReader(src, media.MaxUploadBytes+1)); err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func (c *Client) do(req *http.Request, fields ...zap.Field) ([]string, error) {
	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("summarize request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	fields = append(fields, zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview := string(body)
		if len(preview) > errorBodyPreview {
			preview = preview[:errorBodyPreview]
		}
		c.logger.Warn("summarize returned non-success status", append(fields, zap.String("body", preview))...)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: preview}
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("summarize response not JSON", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if parsed.Error != "" {
		c.logger.Info("summarize returned application error", append(fields, zap.String("error", parsed.Error))...)
		return nil, &APIError{Message: parsed.Error}
	}
	if parsed.Summary == nil {
		return nil, fmt.Errorf("%w: summary field missing", ErrMalformed)
	}
	points := SplitSummary(*parsed.Summary)
	c.logger.Info("summarize succeeded", append(fields, zap.Int("points", len(points)))...)
	return points, nil
}
