// Package ai dispatches chat prompts to hosted completion providers and
// normalizes their heterogeneous responses into one shape. Providers are
// tried strictly in priority order; the first structurally usable answer
// wins and nobody validates answer quality beyond presence.
package ai

import (
	"context"
	"errors"
)

// ErrNoAnswer marks a structurally unusable provider response (empty body or
// missing expected field). It moves the orchestrator to the next provider.
var ErrNoAnswer = errors.New("provider returned no usable answer")

// Provider is the uniform call contract for a hosted completion endpoint.
// Implementations are stateless; every call is independent.
type Provider interface {
	ID() string
	Complete(ctx context.Context, prompt string) (string, error)
}
