package content

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br", "hr",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code")
		safePolicy.AllowAttrs("align").Matching(bluemonday.CellAlign).OnElements("th", "td")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// SanitizeHTML keeps formatting, links, lists, code and tables, and strips
// scripts, event handlers and javascript: URLs.
func SanitizeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// StripHTML removes every tag and unescapes entities.
func StripHTML(s string) string {
	initPolicies()
	return html.UnescapeString(strings.TrimSpace(strictPolicy.Sanitize(s)))
}
