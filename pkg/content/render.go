package content

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts Markdown to sanitized HTML.
func Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return SanitizeHTML(buf.String()), nil
}

// PlainText renders Markdown and strips all markup, collapsing whitespace.
func PlainText(markdown string) string {
	rendered, err := Render(markdown)
	if err != nil {
		rendered = markdown
	}
	return strings.Join(strings.Fields(StripHTML(rendered)), " ")
}

// Excerpt returns the first n runes of the plain text, cut at a word
// boundary when possible and followed by an ellipsis when shortened.
func Excerpt(markdown string, n int) string {
	text := PlainText(markdown)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
