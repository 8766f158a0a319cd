package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anandks07/docflow/internal/core/domain"
)

func TestGenerateAnswerBuildsContextPrompt(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	gen := NewGenerator(client)
	chunks := []domain.RetrievedChunk{{DocumentID: "doc-1", Page: 2, ChunkIndex: 0, Text: "chunk text", Score: 0.99}}
	_, err := gen.GenerateAnswer(context.Background(), "when is the deadline?", domain.LanguageEnglish, chunks)
	if err != nil {
		t.Fatalf("GenerateAnswer() error = %v", err)
	}
	if !strings.Contains(capturedPrompt, "when is the deadline?") || !strings.Contains(capturedPrompt, "chunk text") {
		t.Fatalf("unexpected prompt: %s", capturedPrompt)
	}
	if !strings.Contains(capturedPrompt, domain.NotFoundAnswer(domain.LanguageEnglish)) {
		t.Fatalf("prompt missing refusal contract: %s", capturedPrompt)
	}
}

func TestGenerateSummaryLanguageRule(t *testing.T) {
	prompt := buildSummaryPrompt(domain.LanguageMalayalam, []domain.RetrievedChunk{{Text: "ടെൻഡർ"}})
	if !strings.Contains(prompt, "hybrid of Malayalam and English") {
		t.Fatalf("malayalam summary prompt missing language rule: %s", prompt)
	}
	if !strings.Contains(prompt, "Critical Urgent Tasks and Immediate Deadlines") {
		t.Fatalf("summary prompt missing structure: %s", prompt)
	}

	prompt = buildSummaryPrompt(domain.LanguageEnglish, nil)
	if !strings.Contains(prompt, "Write the summary in English.") {
		t.Fatalf("english summary prompt missing language rule: %s", prompt)
	}
}

func TestEmbedIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	embedder := NewEmbedder(client)
	_, err := embedder.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if class := ClassifyError(err); !class.Retryable {
		t.Fatalf("502 should classify as retryable")
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", "embed")
	embedder := NewEmbedder(client)
	_, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err == nil || !strings.Contains(err.Error(), "mismatch") {
		t.Fatalf("expected count mismatch error, got %v", err)
	}
}
