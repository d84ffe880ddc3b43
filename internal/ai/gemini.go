package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opencampus/portal/internal/apperr"
)

// Gemini calls the Generative Language API generateContent endpoint.
type Gemini struct {
	http   *resty.Client
	apiKey string
	model  string
}

func NewGemini(baseURL, apiKey, model string, timeout time.Duration) *Gemini {
	return &Gemini{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
		apiKey: apiKey,
		model:  model,
	}
}

func (g *Gemini) ID() string { return "gemini" }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", apperr.Configuration("gemini api key is not set")
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		}).
		Post(fmt.Sprintf("/models/%s:generateContent", g.model))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode())
	}

	// Decode the body ourselves rather than trusting the content type header.
	var out geminiResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoAnswer
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrNoAnswer
	}
	return text, nil
}
