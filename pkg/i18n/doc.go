// Package i18n provides immutable message catalogs with language fallback.
//
// Catalogs are flattened at construction into "lang:namespace:key" entries, so
// lookups are a single map access and an instance is safe for concurrent use.
// A lookup tries the exact language, then its base language ("pt" for
// "pt-BR"), then the default language, and finally returns the key itself.
//
// # Embedded catalogs
//
// Default loads the catalogs shipped with the package: English (the fallback)
// and Brazilian Portuguese, under the "messages" namespace. They cover the
// validator rule keys (validation.*) and the session and UI messages (auth.*,
// ui.*):
//
//	catalog, err := i18n.Default()
//	if err != nil {
//		return err
//	}
//	tr := i18n.NewTranslator(catalog, os.Getenv("LANG"), i18n.Namespace)
//	tr.T("auth.welcome", i18n.M{"name": "Ana"}) // "Bem-vindo, Ana!" for pt_BR.UTF-8
//
// # File-based catalogs
//
// WithYAMLDir and WithJSONDir load {lang}/{namespace}.{yaml,yml,json} files
// from any fs.FS. Directory names are normalized BCP 47 tags, so "pt_BR" and
// "pt-br" both load as "pt-BR".
//
// # Language matching
//
// NormalizeLanguage canonicalizes tags, POSIX locale strings included.
// Match picks the closest supported language using golang.org/x/text/language,
// so "pt" or "pt-PT" resolve to "pt-BR" when that is the only Portuguese
// catalog.
//
// # Placeholders
//
// Messages use {{name}} placeholders. Unknown placeholders are left as is.
package i18n
