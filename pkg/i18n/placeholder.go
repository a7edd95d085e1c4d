package i18n

import (
	"fmt"
	"strings"
)

// M is a placeholder map.
type M = map[string]any

// ReplacePlaceholders replaces {{name}} placeholders in template with values
// from placeholders. Unknown placeholders are left unchanged.
//
//	ReplacePlaceholders("Welcome, {{name}}!", M{"name": "Ana"}) // "Welcome, Ana!"
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) < 1 || !strings.Contains(template, "{{") {
		return template
	}

	result := template
	for key, value := range placeholders {
		result = strings.ReplaceAll(result, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}

	return result
}
