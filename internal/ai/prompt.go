package ai

import (
	"fmt"
	"strings"

	"github.com/opencampus/portal/internal/search"
)

// BuildPrompt assembles the single-shot prompt sent to every provider:
// persona, optional retrieved context, then the user question. Providers
// see identical input so a fallback answer stays consistent with what the
// preferred provider would have said.
func BuildPrompt(persona string, snippets []search.Snippet, question string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(persona))
	b.WriteString("\n\n")

	if len(snippets) > 0 {
		b.WriteString("Context from the campus website:\n")
		for _, s := range snippets {
			fmt.Fprintf(&b, "- %s: %s\n", s.Title, s.Excerpt)
		}
		b.WriteString("\n")
	}

	b.WriteString("Question: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}
