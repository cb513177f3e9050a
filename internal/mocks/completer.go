package mocks

import (
	"sync"
	"time"
)

// Completer stands in for the LLM client in agent tests. It records every
// prompt it receives and returns a canned response, an error, or blocks.
type Completer struct {
	mu      sync.Mutex
	calls   int
	Prompts []string

	Response string
	Err      error
	Delay    time.Duration
}

func (c *Completer) Complete(systemPrompt, userPrompt, model string, temperature float64, maxTokens int) (string, error) {
	c.mu.Lock()
	c.calls++
	c.Prompts = append(c.Prompts, userPrompt)
	c.mu.Unlock()

	if c.Delay > 0 {
		time.Sleep(c.Delay)
	}
	if c.Err != nil {
		return "", c.Err
	}
	return c.Response, nil
}

func (c *Completer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
