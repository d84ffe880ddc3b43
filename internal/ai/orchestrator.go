package ai

import (
	"context"

	"github.com/opencampus/portal/internal/logger"
)

// FallbackProviderID tags answers produced after every provider failed.
const FallbackProviderID = "none"

// FallbackMessage is returned verbatim when no provider could answer. The
// chat endpoint never surfaces provider errors to visitors.
const FallbackMessage = "Sorry, the campus assistant is unavailable right now. " +
	"Please try again in a few minutes, or contact the campus office directly."

// Answer is what the chat endpoint renders. Provider names the adapter that
// produced Text, or FallbackProviderID when all of them were exhausted.
type Answer struct {
	Text     string
	Provider string
	Fallback bool
}

// Orchestrator walks its providers in order and returns the first usable
// completion. Provider failures are logged and swallowed; Ask never errors.
type Orchestrator struct {
	providers []Provider
	log       logger.Logger
}

func NewOrchestrator(providers []Provider, log logger.Logger) *Orchestrator {
	return &Orchestrator{providers: providers, log: log}
}

func (o *Orchestrator) Ask(ctx context.Context, prompt string) Answer {
	for _, p := range o.providers {
		text, err := p.Complete(ctx, prompt)
		if err != nil {
			o.log.Warn("provider failed, trying next",
				logger.String("provider", p.ID()),
				logger.Error(err))
			continue
		}
		return Answer{Text: text, Provider: p.ID()}
	}

	o.log.Error("all providers exhausted")
	return Answer{Text: FallbackMessage, Provider: FallbackProviderID, Fallback: true}
}
