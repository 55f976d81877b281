package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestOllamaClientSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var payload struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "qwen3-vl:8b" {
			t.Fatalf("expected model qwen3-vl:8b, got %s", payload.Model)
		}
		if !strings.Contains(payload.Prompt, "Transcript:\nWelcome to the show.") {
			t.Fatalf("prompt missing transcript: %s", payload.Prompt)
		}
		if payload.Stream {
			t.Fatal("expected streaming to be disabled")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"- The host welcomes listeners.\n\n- A guest is introduced.","done":true}`))
	}))
	defer server.Close()

	client := &ollamaClient{
		host:   server.URL,
		model:  "qwen3-vl:8b",
		client: server.Client(),
	}

	result, err := client.Summarize(context.Background(), "Welcome to the show.")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if result != "The host welcomes listeners.\nA guest is introduced." {
		t.Fatalf("unexpected summarize result: %q", result)
	}
}

func TestOllamaClientSummarizesEachChunk(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"response": "Point from part " + string(rune('0'+n)), "done": true})
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "m", client: server.Client()}
	sentence := strings.Repeat("word ", 2000) + "end."
	transcript := strings.Repeat(sentence+" ", 7)

	result, err := client.Summarize(context.Background(), transcript)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	got := strings.Split(result, "\n")
	if int(calls.Load()) != len(got) || len(got) < 2 {
		t.Fatalf("expected one point per chunk, got %d calls and %q", calls.Load(), result)
	}
	if got[0] != "Point from part 1" {
		t.Fatalf("chunks out of order: %q", result)
	}
}

func TestOllamaClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "missing", client: server.Client()}
	_, err := client.Summarize(context.Background(), "Some transcript.")
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("expected ollama error, got %v", err)
	}
}

func TestOllamaClientEmptyTranscript(t *testing.T) {
	client := &ollamaClient{host: "http://unused", model: "m", client: http.DefaultClient}
	if _, err := client.Summarize(context.Background(), "  \n "); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}
