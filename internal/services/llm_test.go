package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tinta/internal/config"

	"github.com/rs/zerolog"
)

func testLLMConfig(baseURL string) config.LLM {
	return config.LLM{
		BaseURL:    baseURL,
		Token:      "test-token",
		Model:      "test-model",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}
}

func chatOK(content string) ChatResponse {
	var resp ChatResponse
	resp.Choices = make([]struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}, 1)
	resp.Choices[0].Message.Content = content
	return resp
}

func TestCompleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing auth header, got %q", r.Header.Get("Authorization"))
		}

		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "test-model" {
			t.Errorf("expected default model, got %s", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(chatOK("respuesta del modelo"))
	}))
	defer server.Close()

	client := NewLLMClient(testLLMConfig(server.URL), zerolog.Nop())
	result, err := client.Complete("sistema", "usuario", "", 0, 0)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result != "respuesta del modelo" {
		t.Errorf("got %q", result)
	}
}

func TestCompleteRetriesTransientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(chatOK("al tercer intento"))
	}))
	defer server.Close()

	client := NewLLMClient(testLLMConfig(server.URL), zerolog.Nop())
	result, err := client.Complete("s", "u", "", 0, 0)
	if err != nil {
		t.Fatalf("Complete failed after retries: %v", err)
	}
	if result != "al tercer intento" {
		t.Errorf("got %q", result)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestCompleteExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewLLMClient(testLLMConfig(server.URL), zerolog.Nop())
	_, err := client.Complete("s", "u", "", 0, 0)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	// Two retries on top of the initial attempt.
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestCompleteDoesNotRetryAuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden} {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(status)
		}))

		client := NewLLMClient(testLLMConfig(server.URL), zerolog.Nop())
		_, err := client.Complete("s", "u", "", 0, 0)
		server.Close()

		statusErr, ok := err.(*StatusError)
		if !ok || statusErr.Code != status {
			t.Fatalf("status %d: expected StatusError, got %v", status, err)
		}
		if atomic.LoadInt32(&calls) != 1 {
			t.Errorf("status %d: expected exactly one attempt, got %d", status, calls)
		}
	}
}

func TestCompleteWithoutToken(t *testing.T) {
	cfg := testLLMConfig("http://unused")
	cfg.Token = ""
	client := NewLLMClient(cfg, zerolog.Nop())

	_, err := client.Complete("s", "u", "", 0, 0)
	if err != ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer server.Close()

	client := NewLLMClient(testLLMConfig(server.URL), zerolog.Nop())
	_, err := client.Complete("s", "u", "", 0, 0)
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewLLMClient(testLLMConfig(server.URL), zerolog.Nop())
	if err := client.Health(); err != nil {
		t.Fatalf("Health failed: %v", err)
	}

	cfg := testLLMConfig(server.URL)
	cfg.Token = ""
	if err := NewLLMClient(cfg, zerolog.Nop()).Health(); err != ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}
