package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage returns the canonical BCP 47 form of tag.
// POSIX locale suffixes are accepted: "pt_BR.UTF-8" becomes "pt-BR".
func NormalizeLanguage(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" {
		return "", ErrEmptyLanguage
	}
	t, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %s", ErrInvalidLanguage, tag, err)
	}
	return t.String(), nil
}

// Match returns the supported language closest to tag, or the default
// language when nothing matches.
func (i *I18n) Match(tag string) string {
	normalized, err := NormalizeLanguage(tag)
	if err != nil {
		return i.defaultLang
	}
	if i.has(normalized) {
		return normalized
	}

	supported := make([]language.Tag, 0, len(i.languages))
	for _, lang := range i.languages {
		t, err := language.Parse(lang)
		if err != nil {
			continue
		}
		supported = append(supported, t)
	}
	if len(supported) == 0 {
		return i.defaultLang
	}

	_, idx, confidence := language.NewMatcher(supported).Match(language.Make(normalized))
	if confidence == language.No {
		return i.defaultLang
	}
	return supported[idx].String()
}

func (i *I18n) has(lang string) bool {
	for _, l := range i.languages {
		if l == lang {
			return true
		}
	}
	return false
}

// baseLanguage strips the region from a language tag ("pt-BR" becomes "pt").
func baseLanguage(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	return lang
}
