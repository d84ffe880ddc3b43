package ai

import (
	"strings"
	"testing"
)

func TestFormatHTMLMarkdown(t *testing.T) {
	got := FormatHTML("**x**\n*y*", nil)

	for _, want := range []string{
		"<strong>x</strong>", "<br>", "<em>y</em>",
		`class="ai-disclaimer"`, "generated automatically",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ai-sources") {
		t.Fatalf("no links were given, output should have no source list:\n%s", got)
	}
}

func TestFormatHTMLSources(t *testing.T) {
	got := FormatHTML("see below", []string{"https://campus.example.edu/library"})

	if !strings.Contains(got, `<a href="https://campus.example.edu/library"`) {
		t.Fatalf("missing source link:\n%s", got)
	}
	if !strings.Contains(got, "<strong>Sources</strong>") {
		t.Fatalf("missing sources heading:\n%s", got)
	}
	if strings.Index(got, "ai-sources") > strings.Index(got, "ai-disclaimer") {
		t.Fatal("disclaimer must come after the source list")
	}
}

func TestFormatHTMLTrailerSurvivesSanitizer(t *testing.T) {
	got := FormatHTML("fine", []string{"https://campus.example.edu/exams"})

	// The wrappers emitted around sources and the disclaimer pass through
	// the same policy as the answer body.
	for _, want := range []string{`<div class="ai-sources">`, `class="ai-disclaimer"`, "campus office"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	// A class smuggled in through the answer is still subject to the policy
	// element allowlist.
	if hostile := FormatHTML(`<iframe class="ai-sources"></iframe>`, nil); strings.Contains(hostile, "<iframe") {
		t.Fatalf("iframe survived sanitization:\n%s", hostile)
	}
}

func TestFormatHTMLSanitizesScripts(t *testing.T) {
	got := FormatHTML(`hello <script>alert(1)</script> <a href="javascript:x()">bad</a>`, nil)

	if strings.Contains(got, "<script>") || strings.Contains(got, "javascript:") {
		t.Fatalf("unsafe markup survived sanitization:\n%s", got)
	}
	if !strings.Contains(got, "hello") {
		t.Fatalf("benign text was lost:\n%s", got)
	}
}

func TestFormatHTMLEscapesLinkText(t *testing.T) {
	got := FormatHTML("a", []string{`https://x.test/?q=<b>`})
	if strings.Contains(got, "?q=<b>") {
		t.Fatalf("link text must be escaped:\n%s", got)
	}
}
