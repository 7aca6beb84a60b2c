// Package render turns assistant output into display-ready HTML. The
// model may answer as a structured JSON object or as loosely formatted
// text; both are normalized to markdown first, then rendered. Raw HTML
// in the input is escaped — assistant output is untrusted.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// sectionLabels are the answer sections the prompt template asks for.
// When loose text starts a line with one of these, it is promoted to a
// markdown heading.
var sectionLabels = []string{
	"Assessment",
	"Recommended treatment",
	"When to seek help",
	"Medication",
	"Dosage",
	"Warnings",
}

// answerShape is the structured JSON form the assistant is asked to use.
type answerShape struct {
	Assessment string `json:"assessment"`
	Treatment  string `json:"treatment"`
	SeekHelp   string `json:"seekHelp"`
	Notes      string `json:"notes"`
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	// No html.WithUnsafe: raw HTML in assistant output stays escaped.
)

// ToMarkdown normalizes assistant output to markdown. JSON answers are
// laid out with the known section headings; loose text gets section
// labels promoted to headings and its line endings normalized.
func ToMarkdown(input string) string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	trimmed := strings.TrimSpace(input)

	if strings.HasPrefix(trimmed, "{") {
		var answer answerShape
		if err := json.Unmarshal([]byte(trimmed), &answer); err == nil {
			if out := answerMarkdown(answer); out != "" {
				return out
			}
		}
	}

	return looseMarkdown(trimmed)
}

func answerMarkdown(a answerShape) string {
	var b strings.Builder
	section := func(label, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", label, text)
	}
	section("Assessment", a.Assessment)
	section("Recommended treatment", a.Treatment)
	section("When to seek help", a.SeekHelp)
	section("Notes", a.Notes)
	return strings.TrimSpace(b.String()) + newlineIfNonEmpty(b.Len())
}

func newlineIfNonEmpty(n int) string {
	if n > 0 {
		return "\n"
	}
	return ""
}

func looseMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		for _, label := range sectionLabels {
			// "Assessment:" or "Assessment" alone on a line.
			rest, ok := cutLabel(stripped, label)
			if !ok {
				continue
			}
			if rest == "" {
				lines[i] = "## " + label
			} else {
				lines[i] = "## " + label + "\n\n" + rest
			}
			break
		}
	}
	out := strings.Join(lines, "\n")
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// cutLabel matches a line of the form "<label>" or "<label>: rest",
// without regard to case, returning the remainder.
func cutLabel(line, label string) (string, bool) {
	if len(line) < len(label) || !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	rest := line[len(label):]
	if rest == "" {
		return "", true
	}
	if strings.HasPrefix(rest, ":") {
		return strings.TrimSpace(rest[1:]), true
	}
	return "", false
}

// ToHTML renders assistant output to HTML via the markdown normalizer.
func ToHTML(input string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(ToMarkdown(input)), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}
