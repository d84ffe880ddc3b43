package ai

import (
	"context"
	"time"
)

// Groq speaks the OpenAI-compatible chat completions dialect hosted at
// api.groq.com.
type Groq struct {
	chatClient
}

func NewGroq(baseURL, apiKey, model string, timeout time.Duration) *Groq {
	return &Groq{chatClient: newChatClient(baseURL, apiKey, model, timeout)}
}

func (g *Groq) ID() string { return "groq" }

func (g *Groq) Complete(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, g.ID(), prompt)
}
