package ai

import (
	"context"
	"time"
)

// OpenRouter proxies many upstream models behind one OpenAI-compatible
// endpoint. It sits last in the default priority order.
type OpenRouter struct {
	chatClient
}

func NewOpenRouter(baseURL, apiKey, model string, timeout time.Duration) *OpenRouter {
	return &OpenRouter{chatClient: newChatClient(baseURL, apiKey, model, timeout)}
}

func (o *OpenRouter) ID() string { return "openrouter" }

func (o *OpenRouter) Complete(ctx context.Context, prompt string) (string, error) {
	return o.complete(ctx, o.ID(), prompt)
}
