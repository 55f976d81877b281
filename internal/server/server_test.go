package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csheth/podsum/internal/cache"
	"github.com/csheth/podsum/internal/media"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSummarizer struct {
	calls    int
	received string
	summary  string
	err      error
}

func (f *fakeSummarizer) Summarize(_ context.Context, transcript string) (string, error) {
	f.calls++
	f.received = transcript
	return f.summary, f.err
}

func (f *fakeSummarizer) Name() string { return "fake-model" }

type fakeTranscriber struct {
	filename string
	data     string
	text     string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, filename string, audio io.Reader) (string, error) {
	raw, _ := io.ReadAll(audio)
	f.filename = filename
	f.data = string(raw)
	return f.text, nil
}

func newTestRouter(t *testing.T, cfg Config) *gin.Engine {
	t.Helper()
	if cfg.Summarizer == nil {
		cfg.Summarizer = &fakeSummarizer{summary: "point a\npoint b"}
	}
	return New(cfg).Router()
}

func doJSON(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doUpload(t *testing.T, router http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/summarize", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func TestSummarizeTranscriptJSON(t *testing.T) {
	summarizer := &fakeSummarizer{summary: "first\nsecond"}
	router := newTestRouter(t, Config{Summarizer: summarizer})

	rec := doJSON(t, router, `{"transcript":"Welcome to the show."}`)
	assertStatus(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["summary"]; got != "first\nsecond" {
		t.Fatalf("summary = %v", got)
	}
	if summarizer.received != "Welcome to the show." {
		t.Fatalf("summarizer received %q", summarizer.received)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("responses should carry a request id")
	}
}

func TestSummarizeRejectsEmptyTranscript(t *testing.T) {
	router := newTestRouter(t, Config{})
	for _, body := range []string{`{"transcript":"   "}`, `{}`, ``, `not json`, `{"transcript":42}`} {
		rec := doJSON(t, router, body)
		assertStatus(t, rec, http.StatusBadRequest)
		if got := decodeBody(t, rec)["error"]; got != msgEmptyTranscript {
			t.Fatalf("body %q: error = %v", body, got)
		}
	}
}

func TestSummarizeTextUpload(t *testing.T) {
	summarizer := &fakeSummarizer{summary: "one"}
	router := newTestRouter(t, Config{Summarizer: summarizer})

	rec := doUpload(t, router, "episode.txt", []byte("Host: hello there."))
	assertStatus(t, rec, http.StatusOK)
	if summarizer.received != "Host: hello there." {
		t.Fatalf("summarizer received %q", summarizer.received)
	}
}

func TestSummarizeAudioUploadIsTranscribed(t *testing.T) {
	summarizer := &fakeSummarizer{summary: "one"}
	transcriber := &fakeTranscriber{text: "spoken words"}
	router := newTestRouter(t, Config{Summarizer: summarizer, Transcriber: transcriber})

	rec := doUpload(t, router, "episode.mp3", []byte("ID3fake"))
	assertStatus(t, rec, http.StatusOK)
	if transcriber.filename != "episode.mp3" || transcriber.data != "ID3fake" {
		t.Fatalf("transcriber got %q %q", transcriber.filename, transcriber.data)
	}
	if summarizer.received != "spoken words" {
		t.Fatalf("summarizer received %q", summarizer.received)
	}
}

func TestSummarizeAudioWithoutTranscriber(t *testing.T) {
	router := newTestRouter(t, Config{})
	rec := doUpload(t, router, "clip.webm", []byte("data"))
	assertStatus(t, rec, http.StatusInternalServerError)
	if got := decodeBody(t, rec)["error"]; got != errNoTranscriber.Error() {
		t.Fatalf("error = %v", got)
	}
}

func TestSummarizeUnsupportedUpload(t *testing.T) {
	summarizer := &fakeSummarizer{summary: "x"}
	router := newTestRouter(t, Config{Summarizer: summarizer})
	rec := doUpload(t, router, "slides.pdf", []byte("%PDF"))
	assertStatus(t, rec, http.StatusBadRequest)
	if summarizer.calls != 0 {
		t.Fatal("unsupported uploads must not reach the model")
	}
}

func TestSummarizeOversizedUpload(t *testing.T) {
	router := newTestRouter(t, Config{})
	rec := doUpload(t, router, "big.txt", bytes.Repeat([]byte("a"), int(media.MaxUploadBytes)+1))
	assertStatus(t, rec, http.StatusRequestEntityTooLarge)
	if got := decodeBody(t, rec)["error"]; got != msgFileTooLarge {
		t.Fatalf("error = %v", got)
	}
}

func TestSummarizeModelFailure(t *testing.T) {
	router := newTestRouter(t, Config{Summarizer: &fakeSummarizer{err: errors.New("ollama API error: 500")}})
	rec := doJSON(t, router, `{"transcript":"hello"}`)
	assertStatus(t, rec, http.StatusInternalServerError)
	if got := decodeBody(t, rec)["error"]; got != "ollama API error: 500" {
		t.Fatalf("error = %v", got)
	}
}

func TestSummarizeUsesCache(t *testing.T) {
	store, err := cache.New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	summarizer := &fakeSummarizer{summary: "cached point"}
	router := newTestRouter(t, Config{Summarizer: summarizer, Cache: store})

	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, `{"transcript":"same transcript"}`)
		assertStatus(t, rec, http.StatusOK)
		if got := decodeBody(t, rec)["summary"]; got != "cached point" {
			t.Fatalf("summary = %v", got)
		}
	}
	if summarizer.calls != 1 {
		t.Fatalf("expected one model call, got %d", summarizer.calls)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assertStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["model"] != "fake-model" || body["transcription"] != false {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, Config{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/summarize", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/summarize", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origins must not be allowed")
	}
}
