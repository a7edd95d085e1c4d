package i18n

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultLang is used when no default language is configured.
const DefaultLang = "en"

// I18n holds flattened message catalogs for several languages.
// It is immutable after New returns and safe for concurrent use.
type I18n struct {
	// Key format: "lang:namespace:key.path"
	translations map[string]string

	missingKeyHandler func(lang, namespace, key string)

	defaultLang string
	languages   []string
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates an I18n instance with the given options.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if i.defaultLang == "" {
		return nil, ErrEmptyLanguage
	}

	i.languages = i.buildLanguagesList()

	return i, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		normalized, err := NormalizeLanguage(lang)
		if err != nil {
			return err
		}
		i.defaultLang = normalized
		return nil
	}
}

// WithLanguages sets the supported languages. The default language is always
// included and placed first; the rest are sorted.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		if len(langs) == 0 {
			return nil
		}

		set := make(map[string]struct{}, len(langs))
		for _, lang := range langs {
			if lang == "" {
				continue
			}
			normalized, err := NormalizeLanguage(lang)
			if err != nil {
				return err
			}
			set[normalized] = struct{}{}
		}
		delete(set, i.defaultLang)

		others := slices.Sorted(maps.Keys(set))
		i.languages = append([]string{i.defaultLang}, others...)

		return nil
	}
}

// WithTranslations loads a possibly nested catalog for one language and namespace.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}
		normalized, err := NormalizeLanguage(lang)
		if err != nil {
			return err
		}
		i.add(normalized, namespace, translations)
		return nil
	}
}

// WithMissingKeyHandler sets a handler called when a key is found neither in
// the requested language nor in the default one.
func WithMissingKeyHandler(handler func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// T returns the translation of key in lang, falling back to the base
// language and then to the default language. Placeholders are replaced with
// the merged values. The key itself is returned when nothing is found.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	if translation, ok := i.lookup(lang, namespace, key); ok {
		return replacePlaceholdersWithMerge(translation, placeholders...)
	}

	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, namespace, key)
	}

	return key
}

// Has reports whether key resolves in lang, fallbacks included.
func (i *I18n) Has(lang, namespace, key string) bool {
	_, ok := i.lookup(lang, namespace, key)
	return ok
}

// Languages returns the supported languages, default first.
func (i *I18n) Languages() []string {
	return slices.Clone(i.languages)
}

// DefaultLanguage returns the fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

func (i *I18n) lookup(lang, namespace, key string) (string, bool) {
	if translation, ok := i.translations[buildKey(lang, namespace, key)]; ok {
		return translation, true
	}

	if base := baseLanguage(lang); base != lang {
		if translation, ok := i.translations[buildKey(base, namespace, key)]; ok {
			return translation, true
		}
	}

	if lang != i.defaultLang && baseLanguage(lang) != i.defaultLang {
		if translation, ok := i.translations[buildKey(i.defaultLang, namespace, key)]; ok {
			return translation, true
		}
	}

	return "", false
}

func (i *I18n) add(lang, namespace string, translations map[string]any) {
	for key, value := range flattenTranslations(translations, "") {
		i.translations[buildKey(lang, namespace, key)] = value
	}
}

func (i *I18n) buildLanguagesList() []string {
	if len(i.languages) > 0 {
		return i.languages
	}
	return []string{i.defaultLang}
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

func flattenTranslations(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flattenTranslations(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}

func replacePlaceholdersWithMerge(template string, placeholders ...M) string {
	if len(placeholders) == 0 {
		return template
	}

	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}

	return ReplacePlaceholders(template, merged)
}
