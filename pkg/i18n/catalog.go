package i18n

import (
	"embed"
	"io/fs"
)

// Namespace is the namespace of the embedded catalogs.
const Namespace = "messages"

// Languages of the embedded catalogs.
const (
	English             = "en"
	BrazilianPortuguese = "pt-BR"
)

//go:embed locales
var locales embed.FS

// Default returns an instance loaded with the embedded en and pt-BR catalogs,
// English being the fallback. Extra options are applied after the catalogs.
func Default(opts ...Option) (*I18n, error) {
	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithDefaultLanguage(English),
		WithLanguages(English, BrazilianPortuguese),
		WithYAMLDir(sub),
	}
	return New(append(base, opts...)...)
}
