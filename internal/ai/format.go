package ai

import (
	"bytes"
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Disclaimer trails every rendered answer.
const Disclaimer = `<p class="ai-disclaimer"><em>This answer was generated automatically and may contain mistakes. Verify important details with the campus office.</em></p>`

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	sanitizer = newPolicy()
)

// newPolicy extends the stock UGC policy with the markup FormatHTML
// itself emits: the disclaimer and source-list wrappers and the
// new-tab attributes on source links.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "div")
	p.AllowAttrs("target", "rel").OnElements("a")
	return p
}

// FormatHTML renders a provider answer (markdown) into HTML, appends a
// source list and the fixed disclaimer, and sanitizes the whole result
// in one pass. Links arriving alongside the answer are escaped, never
// trusted as markup.
func FormatHTML(answer string, links []string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(answer), &buf); err != nil {
		buf.Reset()
		buf.WriteString(stdhtml.EscapeString(answer))
	}

	var b strings.Builder
	b.WriteString(buf.String())

	if len(links) > 0 {
		b.WriteString(`<div class="ai-sources"><p><strong>Sources</strong></p><ul>`)
		for _, link := range links {
			safe := stdhtml.EscapeString(link)
			b.WriteString(`<li><a href="` + safe + `" target="_blank" rel="noopener">` + safe + `</a></li>`)
		}
		b.WriteString(`</ul></div>`)
	}

	b.WriteString(Disclaimer)
	return sanitizer.Sanitize(b.String())
}
