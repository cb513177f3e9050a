package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tinta/internal/config"

	"github.com/rs/zerolog"
)

// LLMClient talks to an OpenAI-compatible chat completions endpoint. It is
// constructed once in main and injected wherever a completion is needed; no
// ambient global client.
type LLMClient struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	defaultModel string
	maxRetries   int
	retryDelay   time.Duration
	log          zerolog.Logger
}

// StatusError carries the HTTP status of a failed backend call so callers can
// decide whether retrying makes sense.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm backend returned %d: %s", e.Code, e.Body)
}

// permanent reports errors that retrying cannot fix: bad request, bad or
// missing credentials.
func (e *StatusError) permanent() bool {
	return e.Code == http.StatusBadRequest ||
		e.Code == http.StatusUnauthorized ||
		e.Code == http.StatusForbidden
}

// ErrNoToken distinguishes "operator forgot the key" from network trouble.
var ErrNoToken = fmt.Errorf("LLM_TOKEN is not set")

func NewLLMClient(cfg config.LLM, log zerolog.Logger) *LLMClient {
	return &LLMClient{
		// The client-side timeout bounds calls orphaned by the execution
		// engine's 55s race: the loser keeps running but not forever.
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		baseURL:      cfg.BaseURL,
		token:        cfg.Token,
		defaultModel: cfg.Model,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		log:          log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion, retrying transient failures with
// exponential backoff (base delay doubled each attempt). Auth and bad-request
// failures are returned immediately.
func (c *LLMClient) Complete(systemPrompt, userPrompt, model string, temperature float64, maxTokens int) (string, error) {
	if c.token == "" {
		return "", ErrNoToken
	}
	if model == "" {
		model = c.defaultModel
	}

	var lastErr error
	delay := c.retryDelay
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
			c.log.Warn().Int("attempt", attempt+1).Err(lastErr).Msg("retrying llm call")
		}

		result, err := c.complete(systemPrompt, userPrompt, model, temperature, maxTokens)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if statusErr, ok := err.(*StatusError); ok && statusErr.permanent() {
			return "", err
		}
	}
	return "", lastErr
}

func (c *LLMClient) complete(systemPrompt, userPrompt, model string, temperature float64, maxTokens int) (string, error) {
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode llm response: %w", err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from llm backend")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// Health checks that the backend is reachable and the credentials work.
func (c *LLMClient) Health() error {
	if c.token == "" {
		return ErrNoToken
	}

	req, err := http.NewRequest("GET", c.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return nil
}
