package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIClientSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "gpt-test" {
			t.Fatalf("unexpected model: %s", payload.Model)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages: %+v", payload.Messages)
		}
		if !strings.Contains(payload.Messages[1].Content, "Transcript:\nHello and welcome.") {
			t.Fatalf("prompt missing transcript: %s", payload.Messages[1].Content)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-test",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "1. Opening remarks.\n2. Closing thoughts."}
			}]
		}`))
	}))
	defer server.Close()

	client := newOpenAIClient("sk-test", "gpt-test", server.URL, server.Client())
	result, err := client.Summarize(context.Background(), "Hello and welcome.")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if result != "Opening remarks.\nClosing thoughts." {
		t.Fatalf("unexpected result: %q", result)
	}
}

func TestOpenAIClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client := newOpenAIClient("bad", "gpt-test", server.URL, server.Client())
	if _, err := client.Summarize(context.Background(), "Hello."); err == nil {
		t.Fatal("expected error for 401")
	}
}
