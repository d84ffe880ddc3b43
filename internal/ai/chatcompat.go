package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opencampus/portal/internal/apperr"
)

// chatClient is the shared plumbing for providers exposing the
// OpenAI-compatible /chat/completions surface.
type chatClient struct {
	http   *resty.Client
	apiKey string
	model  string
}

func newChatClient(baseURL, apiKey, model string, timeout time.Duration) chatClient {
	return chatClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
		apiKey: apiKey,
		model:  model,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c chatClient) complete(ctx context.Context, name, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", apperr.Configuration(name + " api key is not set")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(chatRequest{
			Model:    c.model,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("%s: unexpected status %d", name, resp.StatusCode())
	}

	// Decode the body ourselves rather than trusting the content type header.
	var out chatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", name, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrNoAnswer
	}
	return out.Choices[0].Message.Content, nil
}
