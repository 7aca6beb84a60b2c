package render

import (
	"strings"
	"testing"
)

func TestToMarkdownStructuredAnswer(t *testing.T) {
	input := `{"assessment":"Likely seasickness.","treatment":"Rest and hydration.","seekHelp":"If vomiting persists beyond 24h."}`
	got := ToMarkdown(input)

	for _, want := range []string{"## Assessment", "Likely seasickness.", "## Recommended treatment", "## When to seek help"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q:\n%s", want, got)
		}
	}
}

func TestToMarkdownLooseTextPromotesLabels(t *testing.T) {
	input := "Assessment: mild burn\nKeep the area clean.\nWhen to seek help\nIf blistering spreads."
	got := ToMarkdown(input)

	if !strings.Contains(got, "## Assessment") {
		t.Errorf("label with colon not promoted:\n%s", got)
	}
	if !strings.Contains(got, "mild burn") {
		t.Errorf("label remainder lost:\n%s", got)
	}
	if !strings.Contains(got, "## When to seek help") {
		t.Errorf("bare label not promoted:\n%s", got)
	}
}

func TestToMarkdownLabelMatchingIsCaseInsensitive(t *testing.T) {
	got := ToMarkdown("ASSESSMENT: fine")
	if !strings.Contains(got, "## Assessment") {
		t.Errorf("case-insensitive label not matched:\n%s", got)
	}
}

func TestToMarkdownNonJSONBraceFallsThrough(t *testing.T) {
	input := "{this is not json"
	got := ToMarkdown(input)
	if !strings.Contains(got, "{this is not json") {
		t.Errorf("unparseable brace input should pass through as text:\n%s", got)
	}
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	html, err := ToHTML("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("raw HTML must be escaped:\n%s", html)
	}
}

func TestToHTMLRendersMarkdown(t *testing.T) {
	html, err := ToHTML("Assessment: **stable**")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(html, "<h2") || !strings.Contains(html, "<strong>stable</strong>") {
		t.Errorf("markdown not rendered:\n%s", html)
	}
}
