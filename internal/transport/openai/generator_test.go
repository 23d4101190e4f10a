package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/campusqa/campusqa/internal/domain"
)

func newGeneratorServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestGenerator_Generate(t *testing.T) {
	server := newGeneratorServer(t, `{
		"id": "cmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Học phí kỳ 1 là 12 triệu."}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 50, "completion_tokens": 12, "total_tokens": 62}
	}`, http.StatusOK)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "test-model",
		Temperature: 0.3,
		Provider:    "test",
		Logger:      zap.NewNop(),
	})

	raw, err := gen.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	text, ok := raw.(string)
	if !ok {
		t.Fatalf("expected string payload, got %T", raw)
	}
	if text != "Học phí kỳ 1 là 12 triệu." {
		t.Errorf("got %q", text)
	}
}

func TestGenerator_NoChoices(t *testing.T) {
	server := newGeneratorServer(t, `{"id": "cmpl-2", "object": "chat.completion", "choices": []}`, http.StatusOK)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	if _, err := gen.Generate(context.Background(), "prompt"); !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Errorf("expected ErrGenerationProviderError, got %v", err)
	}
}

func TestGenerator_APIError(t *testing.T) {
	server := newGeneratorServer(t, `{"detail":"quota exceeded"}`, http.StatusTooManyRequests)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	if _, err := gen.Generate(context.Background(), "prompt"); !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Errorf("expected ErrGenerationProviderError, got %v", err)
	}
}
